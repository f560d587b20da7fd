package tmdb

import "strings"

type MediaType string

const (
	MediaAll    MediaType = "all"
	MediaMovie  MediaType = "movie"
	MediaTV     MediaType = "tv"
	MediaPerson MediaType = "person"
)

func (m MediaType) String() string { return string(m) }

// IsTitle reports whether m is a movie or a tv show.
func (m MediaType) IsTitle() bool {
	return m == MediaMovie || m == MediaTV
}

func ParseMediaType(s string) (MediaType, error) {
	switch m := MediaType(strings.ToLower(strings.TrimSpace(s))); m {
	case MediaAll, MediaMovie, MediaTV, MediaPerson:
		return m, nil
	}
	return "", ErrInvalidMediaType
}

type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

type MovieDetail struct {
	Movie
	Genres              []Genre             `json:"genres"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Homepage            string              `json:"homepage"`
	IMDbID              string              `json:"imdb_id"`
	ProductionCompanies []Company           `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

type TVShow struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	FirstAirDate     string   `json:"first_air_date"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
}

type Creator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type TVShowDetail struct {
	TVShow
	Genres           []Genre   `json:"genres"`
	EpisodeRunTime   []int     `json:"episode_run_time"`
	NumberOfSeasons  int       `json:"number_of_seasons"`
	NumberOfEpisodes int       `json:"number_of_episodes"`
	Seasons          []Season  `json:"seasons"`
	Status           string    `json:"status"`
	Tagline          string    `json:"tagline"`
	Homepage         string    `json:"homepage"`
	LastAirDate      string    `json:"last_air_date"`
	InProduction     bool      `json:"in_production"`
	Networks         []Company `json:"networks"`
	CreatedBy        []Creator `json:"created_by"`
}

type Season struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	AirDate      string  `json:"air_date"`
	EpisodeCount int     `json:"episode_count,omitempty"`
	PosterPath   string  `json:"poster_path"`
	SeasonNumber int     `json:"season_number"`
	VoteAverage  float64 `json:"vote_average"`
}

type SeasonDetail struct {
	Season
	Episodes []Episode `json:"episodes"`
}

type Episode struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Overview      string       `json:"overview"`
	AirDate       string       `json:"air_date"`
	EpisodeNumber int          `json:"episode_number"`
	SeasonNumber  int          `json:"season_number"`
	Runtime       int          `json:"runtime"`
	StillPath     string       `json:"still_path"`
	VoteAverage   float64      `json:"vote_average"`
	VoteCount     int          `json:"vote_count"`
	Crew          []CrewMember `json:"crew,omitempty"`
	GuestStars    []CastMember `json:"guest_stars,omitempty"`
}

type CastMember struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Character          string  `json:"character"`
	CreditID           string  `json:"credit_id"`
	Order              int     `json:"order"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Gender             int     `json:"gender"`
	Popularity         float64 `json:"popularity"`
}

type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	CreditID    string `json:"credit_id"`
	ProfilePath string `json:"profile_path"`
	Gender      int    `json:"gender"`
}

type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the crew members whose job is Director.
func (c *Credits) Directors() []CrewMember {
	var out []CrewMember
	for _, m := range c.Crew {
		if m.Job == "Director" {
			out = append(out, m)
		}
	}
	return out
}

type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
	ISO6391     string `json:"iso_639_1"`
	ISO31661    string `json:"iso_3166_1"`
}

type Videos struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

type Image struct {
	AspectRatio float64 `json:"aspect_ratio"`
	FilePath    string  `json:"file_path"`
	Height      int     `json:"height"`
	Width       int     `json:"width"`
	ISO6391     *string `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

type Images struct {
	ID        int64   `json:"id"`
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
	Logos     []Image `json:"logos,omitempty"`
}

type PersonImages struct {
	ID       int64   `json:"id"`
	Profiles []Image `json:"profiles"`
}

type Person struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	ProfilePath        string        `json:"profile_path"`
	Adult              bool          `json:"adult"`
	Popularity         float64       `json:"popularity"`
	KnownForDepartment string        `json:"known_for_department"`
	Gender             int           `json:"gender"`
	KnownFor           []MultiResult `json:"known_for,omitempty"`
}

type PersonDetail struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	AlsoKnownAs        []string `json:"also_known_as"`
	Birthday           string   `json:"birthday"`
	Deathday           string   `json:"deathday"`
	PlaceOfBirth       string   `json:"place_of_birth"`
	Biography          string   `json:"biography"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	Popularity         float64  `json:"popularity"`
	Gender             int      `json:"gender"`
	IMDbID             string   `json:"imdb_id"`
	Homepage           string   `json:"homepage"`
}

type PersonCredit struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	Character    string    `json:"character,omitempty"`
	Job          string    `json:"job,omitempty"`
	Department   string    `json:"department,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	VoteAverage  float64   `json:"vote_average"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	MediaType    MediaType `json:"media_type,omitempty"`
}

type PersonCredits struct {
	ID   int64          `json:"id"`
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

type ExternalIDs struct {
	ID          int64  `json:"id"`
	IMDbID      string `json:"imdb_id"`
	FacebookID  string `json:"facebook_id"`
	FreebaseMID string `json:"freebase_mid"`
	FreebaseID  string `json:"freebase_id"`
	TVRageID    *int64 `json:"tvrage_id"`
	TwitterID   string `json:"twitter_id"`
	InstagramID string `json:"instagram_id"`
}

// MultiResult is an item of a mixed list (multi search, trending, known_for).
// Movie fields and tv fields are both present; MediaType says which apply.
type MultiResult struct {
	ID                 int64     `json:"id"`
	MediaType          MediaType `json:"media_type"`
	Title              string    `json:"title,omitempty"`
	OriginalTitle      string    `json:"original_title,omitempty"`
	Name               string    `json:"name,omitempty"`
	OriginalName       string    `json:"original_name,omitempty"`
	Overview           string    `json:"overview,omitempty"`
	PosterPath         string    `json:"poster_path,omitempty"`
	BackdropPath       string    `json:"backdrop_path,omitempty"`
	ProfilePath        string    `json:"profile_path,omitempty"`
	ReleaseDate        string    `json:"release_date,omitempty"`
	FirstAirDate       string    `json:"first_air_date,omitempty"`
	OriginalLanguage   string    `json:"original_language,omitempty"`
	OriginCountry      []string  `json:"origin_country,omitempty"`
	GenreIDs           []int     `json:"genre_ids,omitempty"`
	Popularity         float64   `json:"popularity"`
	VoteAverage        float64   `json:"vote_average"`
	VoteCount          int       `json:"vote_count"`
	KnownForDepartment string    `json:"known_for_department,omitempty"`
	Adult              bool      `json:"adult"`
}

func (r *MultiResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date is the release date for movies and the first air date otherwise.
func (r *MultiResult) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type Country struct {
	ISO31661    string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name"`
}

type RatingResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func fillMediaType(page *Page[MultiResult], media MediaType) {
	if page == nil || !(media.IsTitle() || media == MediaPerson) {
		return
	}
	for i := range page.Results {
		if page.Results[i].MediaType == "" {
			page.Results[i].MediaType = media
		}
	}
}
