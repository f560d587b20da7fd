package tmdb

import (
	"context"
	"fmt"
)

type TVList string

const (
	TVPopular     TVList = "popular"
	TVOnTheAir    TVList = "on_the_air"
	TVAiringToday TVList = "airing_today"
	TVTopRated    TVList = "top_rated"
)

func (l TVList) Valid() bool {
	switch l {
	case TVPopular, TVOnTheAir, TVAiringToday, TVTopRated:
		return true
	}
	return false
}

func (c *Client) TVList(ctx context.Context, list TVList, page int) (*Page[TVShow], error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown tv list %q", list)
	}
	var out Page[TVShow]
	if err := c.get(ctx, "/tv/"+string(list), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.TVList(ctx, TVPopular, page)
}

func (c *Client) OnTheAirTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.TVList(ctx, TVOnTheAir, page)
}

func (c *Client) AiringTodayTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.TVList(ctx, TVAiringToday, page)
}

func (c *Client) TopRatedTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.TVList(ctx, TVTopRated, page)
}

func (c *Client) TVDetail(ctx context.Context, id int64) (*TVShowDetail, error) {
	var out TVShowDetail
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TVSeasons returns the season list of a show, which is part of its detail payload.
func (c *Client) TVSeasons(ctx context.Context, id int64) ([]Season, error) {
	detail, err := c.TVDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Seasons, nil
}

func (c *Client) SimilarTV(ctx context.Context, id int64, page int) (*Page[TVShow], error) {
	var out Page[TVShow]
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/similar", id), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVRecommendations(ctx context.Context, id int64, page int) (*Page[TVShow], error) {
	var out Page[TVShow]
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/recommendations", id), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVCredits(ctx context.Context, id int64) (*Credits, error) {
	return c.Credits(ctx, MediaTV, id)
}

func (c *Client) TVVideos(ctx context.Context, id int64) (*Videos, error) {
	return c.Videos(ctx, MediaTV, id)
}

func (c *Client) TVImages(ctx context.Context, id int64) (*Images, error) {
	var out Images
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/images", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SeasonDetail(ctx context.Context, tvID int64, season int) (*SeasonDetail, error) {
	var out SeasonDetail
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", tvID, season), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EpisodeDetail(ctx context.Context, tvID int64, season, episode int) (*Episode, error) {
	var out Episode
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", tvID, season, episode)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
