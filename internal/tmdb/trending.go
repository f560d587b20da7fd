package tmdb

import (
	"context"
	"fmt"
)

type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)

func (w TimeWindow) Valid() bool {
	return w == WindowDay || w == WindowWeek
}

func (c *Client) Trending(ctx context.Context, media MediaType, window TimeWindow, page int) (*Page[MultiResult], error) {
	return c.trending(ctx, media, window, pageParam(page))
}

// AllTrending is today's trending list across every media type, with caller params.
func (c *Client) AllTrending(ctx context.Context, params Params) (*Page[MultiResult], error) {
	return c.trending(ctx, MediaAll, WindowDay, params)
}

func (c *Client) MovieTrending(ctx context.Context, page int) (*Page[MultiResult], error) {
	return c.Trending(ctx, MediaMovie, WindowDay, page)
}

func (c *Client) TVTrending(ctx context.Context, page int) (*Page[MultiResult], error) {
	return c.Trending(ctx, MediaTV, WindowDay, page)
}

func (c *Client) PersonTrending(ctx context.Context, page int) (*Page[MultiResult], error) {
	return c.Trending(ctx, MediaPerson, WindowDay, page)
}

func (c *Client) WeeklyTrending(ctx context.Context, media MediaType, page int) (*Page[MultiResult], error) {
	if media == "" {
		media = MediaAll
	}
	return c.Trending(ctx, media, WindowWeek, page)
}

func (c *Client) trending(ctx context.Context, media MediaType, window TimeWindow, params Params) (*Page[MultiResult], error) {
	if _, err := ParseMediaType(string(media)); err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, fmt.Errorf("unknown time window %q", window)
	}
	var out Page[MultiResult]
	if err := c.get(ctx, fmt.Sprintf("/trending/%s/%s", media, window), params, &out); err != nil {
		return nil, err
	}
	fillMediaType(&out, media)
	return &out, nil
}
