package tmdb

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SearchOptions are the optional filters accepted by the search endpoints. Each
// endpoint forwards only the filters it understands.
type SearchOptions struct {
	IncludeAdult       *bool
	Language           string
	Region             string
	Year               int
	PrimaryReleaseYear int
	FirstAirDateYear   int
}

func (o SearchOptions) common() Params {
	p := Params{}
	if o.IncludeAdult != nil {
		p["include_adult"] = *o.IncludeAdult
	}
	if o.Language != "" {
		p["language"] = o.Language
	}
	if o.Region != "" {
		p["region"] = o.Region
	}
	return p
}

func (o SearchOptions) forMedia(media MediaType) Params {
	p := o.common()
	switch media {
	case MediaMovie:
		if o.Year > 0 {
			p["year"] = o.Year
		}
		if o.PrimaryReleaseYear > 0 {
			p["primary_release_year"] = o.PrimaryReleaseYear
		}
	case MediaTV:
		if o.FirstAirDateYear > 0 {
			p["first_air_date_year"] = o.FirstAirDateYear
		}
	}
	return p
}

func searchParams(query string, page int, extra Params) Params {
	return Merge(Params{"query": query}, pageParam(page), extra)
}

func emptyPage[T any]() *Page[T] {
	return &Page[T]{Page: 1, Results: []T{}}
}

func (c *Client) SearchMulti(ctx context.Context, query string, page int, opts SearchOptions) (*Page[MultiResult], error) {
	if strings.TrimSpace(query) == "" {
		return emptyPage[MultiResult](), nil
	}
	var out Page[MultiResult]
	if err := c.get(ctx, "/search/multi", searchParams(query, page, opts.common()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int, opts SearchOptions) (*Page[Movie], error) {
	if strings.TrimSpace(query) == "" {
		return emptyPage[Movie](), nil
	}
	var out Page[Movie]
	if err := c.get(ctx, "/search/movie", searchParams(query, page, opts.forMedia(MediaMovie)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchTV(ctx context.Context, query string, page int, opts SearchOptions) (*Page[TVShow], error) {
	if strings.TrimSpace(query) == "" {
		return emptyPage[TVShow](), nil
	}
	var out Page[TVShow]
	if err := c.get(ctx, "/search/tv", searchParams(query, page, opts.forMedia(MediaTV)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchPeople(ctx context.Context, query string, page int, opts SearchOptions) (*Page[Person], error) {
	if strings.TrimSpace(query) == "" {
		return emptyPage[Person](), nil
	}
	var out Page[Person]
	if err := c.get(ctx, "/search/person", searchParams(query, page, opts.forMedia(MediaPerson)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByType searches a single media type and returns the hits in the mixed
// result shape with media_type filled in.
func (c *Client) SearchByType(ctx context.Context, media MediaType, query string, page int, opts SearchOptions) (*Page[MultiResult], error) {
	switch media {
	case MediaMovie, MediaTV, MediaPerson:
	case MediaAll:
		return c.SearchMulti(ctx, query, page, opts)
	default:
		return nil, ErrInvalidMediaType
	}
	if strings.TrimSpace(query) == "" {
		return emptyPage[MultiResult](), nil
	}
	var out Page[MultiResult]
	if err := c.get(ctx, "/search/"+string(media), searchParams(query, page, opts.forMedia(media)), &out); err != nil {
		return nil, err
	}
	fillMediaType(&out, media)
	return &out, nil
}

// AdvancedResult holds either the multi search page or one page per requested type.
type AdvancedResult struct {
	Multi  *Page[MultiResult] `json:"multi,omitempty"`
	Movies *Page[Movie]       `json:"movies,omitempty"`
	TV     *Page[TVShow]      `json:"tv,omitempty"`
	People *Page[Person]      `json:"people,omitempty"`
}

// AdvancedSearch uses multi search when every type is requested and otherwise
// runs the typed searches concurrently. An empty type list means every type.
func (c *Client) AdvancedSearch(ctx context.Context, query string, page int, types []MediaType, opts SearchOptions) (*AdvancedResult, error) {
	if len(types) == 0 {
		types = []MediaType{MediaMovie, MediaTV, MediaPerson}
	}
	wantMovie := slices.Contains(types, MediaMovie)
	wantTV := slices.Contains(types, MediaTV)
	wantPerson := slices.Contains(types, MediaPerson)
	if !wantMovie && !wantTV && !wantPerson {
		return nil, ErrInvalidMediaType
	}

	if wantMovie && wantTV && wantPerson {
		multi, err := c.SearchMulti(ctx, query, page, opts)
		if err != nil {
			return nil, err
		}
		return &AdvancedResult{Multi: multi}, nil
	}

	var res AdvancedResult
	g, gctx := errgroup.WithContext(ctx)
	if wantMovie {
		g.Go(func() error {
			p, err := c.SearchMovies(gctx, query, page, opts)
			res.Movies = p
			return err
		})
	}
	if wantTV {
		g.Go(func() error {
			p, err := c.SearchTV(gctx, query, page, opts)
			res.TV = p
			return err
		})
	}
	if wantPerson {
		g.Go(func() error {
			p, err := c.SearchPeople(gctx, query, page, opts)
			res.People = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Suggestions returns the first page of multi search hits for query.
func (c *Client) Suggestions(ctx context.Context, query string) (*Page[MultiResult], error) {
	return c.SearchMulti(ctx, query, 1, SearchOptions{})
}
