package tmdb

import (
	"context"
	"fmt"
)

type DiscoverPreset string

const (
	PresetHighRated DiscoverPreset = "high_rated"
	PresetLatest    DiscoverPreset = "latest"
	PresetUpcoming  DiscoverPreset = "upcoming"
)

const defaultMinRating = 7.0

// Discover queries /discover/{media}. sort_by defaults to popularity.desc and page to 1;
// params override both.
func (c *Client) Discover(ctx context.Context, media MediaType, params Params) (*Page[MultiResult], error) {
	if !media.IsTitle() {
		return nil, ErrInvalidMediaType
	}
	merged := Merge(Params{"sort_by": "popularity.desc", "page": 1}, params)
	var out Page[MultiResult]
	if err := c.get(ctx, "/discover/"+string(media), merged, &out); err != nil {
		return nil, err
	}
	fillMediaType(&out, media)
	return &out, nil
}

func (c *Client) DiscoverByGenre(ctx context.Context, media MediaType, genreID, page int, extra Params) (*Page[MultiResult], error) {
	return c.Discover(ctx, media, Merge(Params{"with_genres": genreID}, pageParam(page), extra))
}

// HighRated lists titles rated at least minRating with enough votes to be meaningful.
func (c *Client) HighRated(ctx context.Context, media MediaType, page int, minRating float64) (*Page[MultiResult], error) {
	if minRating <= 0 {
		minRating = defaultMinRating
	}
	minVotes := 100
	if media == MediaTV {
		minVotes = 50
	}
	return c.Discover(ctx, media, Merge(Params{
		"vote_average.gte": minRating,
		"vote_count.gte":   minVotes,
		"sort_by":          "vote_average.desc",
	}, pageParam(page)))
}

// Latest lists titles released up to today, newest first.
func (c *Client) Latest(ctx context.Context, media MediaType, page int) (*Page[MultiResult], error) {
	key := dateKey(media)
	return c.Discover(ctx, media, Merge(Params{
		key + ".lte": c.today(),
		"sort_by":    key + ".desc",
	}, pageParam(page)))
}

// Upcoming lists titles releasing from today on, soonest first.
func (c *Client) Upcoming(ctx context.Context, media MediaType, page int) (*Page[MultiResult], error) {
	key := dateKey(media)
	return c.Discover(ctx, media, Merge(Params{
		key + ".gte": c.today(),
		"sort_by":    key + ".asc",
	}, pageParam(page)))
}

func (c *Client) DiscoverPreset(ctx context.Context, media MediaType, preset DiscoverPreset, page int) (*Page[MultiResult], error) {
	switch preset {
	case PresetHighRated:
		return c.HighRated(ctx, media, page, defaultMinRating)
	case PresetLatest:
		return c.Latest(ctx, media, page)
	case PresetUpcoming:
		return c.Upcoming(ctx, media, page)
	default:
		return nil, fmt.Errorf("unknown discover preset %q", preset)
	}
}

func dateKey(media MediaType) string {
	if media == MediaTV {
		return "first_air_date"
	}
	return "primary_release_date"
}
