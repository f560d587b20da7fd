package handlers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/handsomefox/movie-discovery/internal/format"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

const overviewCastLimit = 12

type personView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Gender     string `json:"gender"`
	ProfileURL string `json:"profile_url,omitempty"`
}

type titleOverview struct {
	ID            int64               `json:"id"`
	MediaType     tmdb.MediaType      `json:"media_type"`
	Title         string              `json:"title"`
	OriginalTitle string              `json:"original_title"`
	Tagline       string              `json:"tagline,omitempty"`
	Overview      string              `json:"overview"`
	Status        string              `json:"status,omitempty"`
	Year          string              `json:"year"`
	Date          string              `json:"date"`
	Runtime       string              `json:"runtime"`
	Budget        string              `json:"budget,omitempty"`
	Revenue       string              `json:"revenue,omitempty"`
	Seasons       int                 `json:"seasons,omitempty"`
	Episodes      int                 `json:"episodes,omitempty"`
	Genres        []string            `json:"genres"`
	VoteAverage   float64             `json:"vote_average"`
	VoteCount     int                 `json:"vote_count"`
	Popularity    string              `json:"popularity"`
	PosterURL     string              `json:"poster_url,omitempty"`
	BackdropURL   string              `json:"backdrop_url,omitempty"`
	Posters       []tmdb.ImageVariant `json:"posters,omitempty"`
	Backdrops     []tmdb.ImageVariant `json:"backdrops,omitempty"`
	Trailer       *videoView          `json:"trailer,omitempty"`
	Directors     []personView        `json:"directors"`
	Cast          []personView        `json:"cast"`
	UserRating    *float64            `json:"user_rating,omitempty"`
}

// getOverview combines detail, credits and videos into the shape the detail page renders.
func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	v := visitorFrom(ctx)
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}

	var (
		out     *titleOverview
		credits *tmdb.Credits
		videos  *tmdb.Videos
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out, err = h.titleDetail(gctx, media, id)
		return err
	})
	g.Go(func() (err error) {
		credits, err = h.tmdb.Credits(gctx, media, id)
		return err
	})
	g.Go(func() (err error) {
		videos, err = h.tmdb.Videos(gctx, media, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return upstream(err)
	}

	base := h.tmdb.ImageBaseURL()
	out.Directors = []personView{}
	for _, d := range credits.Directors() {
		out.Directors = append(out.Directors, personView{
			ID:         d.ID,
			Name:       d.Name,
			Role:       d.Job,
			Department: format.Department(d.Department, v.Locale),
			Gender:     format.Gender(d.Gender),
			ProfileURL: tmdb.ImageURL(base, d.ProfilePath, tmdb.KindProfile, tmdb.SizeMedium),
		})
	}
	out.Cast = []personView{}
	for i, c := range credits.Cast {
		if i >= overviewCastLimit {
			break
		}
		out.Cast = append(out.Cast, personView{
			ID:         c.ID,
			Name:       c.Name,
			Role:       c.Character,
			Department: format.Department(c.KnownForDepartment, v.Locale),
			Gender:     format.Gender(c.Gender),
			ProfileURL: tmdb.ImageURL(base, c.ProfilePath, tmdb.KindProfile, tmdb.SizeMedium),
		})
	}
	if trailer, ok := tmdb.MainTrailer(videos.Results); ok {
		out.Trailer = ptr(toVideoView(trailer))
	}

	rated, err := h.store.RatingsFor(ctx, v.ClientID, []store.TMDBRef{{ID: id, MediaType: string(media)}})
	if err != nil {
		return internal(err)
	}
	if value, ok := rated[store.TMDBRef{ID: id, MediaType: string(media)}]; ok {
		out.UserRating = ptr(value)
	}

	writeJSON(w, http.StatusOK, out)
	return nil
}

func (h *Handler) titleDetail(ctx context.Context, media tmdb.MediaType, id int64) (*titleOverview, error) {
	base := h.tmdb.ImageBaseURL()
	images := func(out *titleOverview, poster, backdrop string) {
		out.PosterURL = tmdb.ImageURL(base, poster, tmdb.KindPoster, tmdb.SizeLarge)
		out.BackdropURL = tmdb.ImageURL(base, backdrop, tmdb.KindBackdrop, tmdb.SizeLarge)
		out.Posters = tmdb.ResponsiveImages(base, poster, tmdb.KindPoster)
		out.Backdrops = tmdb.ResponsiveImages(base, backdrop, tmdb.KindBackdrop)
	}

	if media == tmdb.MediaTV {
		d, err := h.tmdb.TVDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		runtime := 0
		if len(d.EpisodeRunTime) > 0 {
			runtime = d.EpisodeRunTime[0]
		}
		out := &titleOverview{
			ID:            d.ID,
			MediaType:     tmdb.MediaTV,
			Title:         d.Name,
			OriginalTitle: d.OriginalName,
			Tagline:       d.Tagline,
			Overview:      d.Overview,
			Status:        d.Status,
			Year:          format.Year(d.FirstAirDate),
			Date:          format.Date(d.FirstAirDate),
			Runtime:       format.Runtime(runtime),
			Seasons:       d.NumberOfSeasons,
			Episodes:      d.NumberOfEpisodes,
			Genres:        genreNames(d.Genres),
			VoteAverage:   d.VoteAverage,
			VoteCount:     d.VoteCount,
			Popularity:    format.Popularity(d.Popularity),
		}
		images(out, d.PosterPath, d.BackdropPath)
		return out, nil
	}

	d, err := h.tmdb.MovieDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &titleOverview{
		ID:            d.ID,
		MediaType:     tmdb.MediaMovie,
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Tagline:       d.Tagline,
		Overview:      d.Overview,
		Status:        d.Status,
		Year:          format.Year(d.ReleaseDate),
		Date:          format.Date(d.ReleaseDate),
		Runtime:       format.Runtime(d.Runtime),
		Budget:        format.Budget(d.Budget),
		Revenue:       format.Budget(d.Revenue),
		Genres:        genreNames(d.Genres),
		VoteAverage:   d.VoteAverage,
		VoteCount:     d.VoteCount,
		Popularity:    format.Popularity(d.Popularity),
	}
	images(out, d.PosterPath, d.BackdropPath)
	return out, nil
}

func genreNames(genres []tmdb.Genre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.Name)
	}
	return out
}
