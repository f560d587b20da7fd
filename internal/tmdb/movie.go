package tmdb

import (
	"context"
	"fmt"
	"net/http"
)

type MovieList string

const (
	MoviePopular    MovieList = "popular"
	MovieNowPlaying MovieList = "now_playing"
	MovieUpcoming   MovieList = "upcoming"
	MovieTopRated   MovieList = "top_rated"
)

func (l MovieList) Valid() bool {
	switch l {
	case MoviePopular, MovieNowPlaying, MovieUpcoming, MovieTopRated:
		return true
	}
	return false
}

func (c *Client) MovieList(ctx context.Context, list MovieList, page int) (*Page[Movie], error) {
	if !list.Valid() {
		return nil, fmt.Errorf("unknown movie list %q", list)
	}
	var out Page[Movie]
	if err := c.get(ctx, "/movie/"+string(list), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.MovieList(ctx, MoviePopular, page)
}

func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.MovieList(ctx, MovieNowPlaying, page)
}

func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.MovieList(ctx, MovieUpcoming, page)
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.MovieList(ctx, MovieTopRated, page)
}

func (c *Client) MovieDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	var out MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SimilarMovies(ctx context.Context, id int64, page int) (*Page[Movie], error) {
	var out Page[Movie]
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", id), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MovieRecommendations(ctx context.Context, id int64, page int) (*Page[Movie], error) {
	var out Page[Movie]
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/recommendations", id), pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MovieCredits(ctx context.Context, id int64) (*Credits, error) {
	return c.Credits(ctx, MediaMovie, id)
}

func (c *Client) MovieVideos(ctx context.Context, id int64) (*Videos, error) {
	return c.Videos(ctx, MediaMovie, id)
}

func (c *Client) MovieImages(ctx context.Context, id int64) (*Images, error) {
	var out Images
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/images", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RateMovie submits a rating between 0.5 and 10.
func (c *Client) RateMovie(ctx context.Context, id int64, value float64) (*RatingResponse, error) {
	if value < 0.5 || value > 10 {
		return nil, ErrInvalidRating
	}
	var out RatingResponse
	req := Request{
		Path:   fmt.Sprintf("/movie/%d/rating", id),
		Method: http.MethodPost,
		Body:   map[string]float64{"value": value},
	}
	if err := c.Fetch(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
