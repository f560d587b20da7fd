package tmdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedWrapperPaths(t *testing.T) {
	tests := []struct {
		name  string
		call  func(ctx context.Context, c *Client) error
		path  string
		query map[string]string
	}{
		{"PopularMovies", func(ctx context.Context, c *Client) error { _, err := c.PopularMovies(ctx, 2); return err }, "/movie/popular", map[string]string{"page": "2"}},
		{"NowPlayingMovies", func(ctx context.Context, c *Client) error { _, err := c.NowPlayingMovies(ctx, 1); return err }, "/movie/now_playing", nil},
		{"UpcomingMovies", func(ctx context.Context, c *Client) error { _, err := c.UpcomingMovies(ctx, 1); return err }, "/movie/upcoming", nil},
		{"TopRatedMovies", func(ctx context.Context, c *Client) error { _, err := c.TopRatedMovies(ctx, 1); return err }, "/movie/top_rated", nil},
		{"SimilarMovies", func(ctx context.Context, c *Client) error { _, err := c.SimilarMovies(ctx, 550, 3); return err }, "/movie/550/similar", map[string]string{"page": "3"}},
		{"MovieRecommendations", func(ctx context.Context, c *Client) error { _, err := c.MovieRecommendations(ctx, 550, 1); return err }, "/movie/550/recommendations", nil},
		{"MovieCredits", func(ctx context.Context, c *Client) error { _, err := c.MovieCredits(ctx, 550); return err }, "/movie/550/credits", nil},
		{"MovieVideos", func(ctx context.Context, c *Client) error { _, err := c.MovieVideos(ctx, 550); return err }, "/movie/550/videos", nil},
		{"MovieImages", func(ctx context.Context, c *Client) error { _, err := c.MovieImages(ctx, 550); return err }, "/movie/550/images", nil},
		{"PopularTV", func(ctx context.Context, c *Client) error { _, err := c.PopularTV(ctx, 1); return err }, "/tv/popular", nil},
		{"OnTheAirTV", func(ctx context.Context, c *Client) error { _, err := c.OnTheAirTV(ctx, 1); return err }, "/tv/on_the_air", nil},
		{"AiringTodayTV", func(ctx context.Context, c *Client) error { _, err := c.AiringTodayTV(ctx, 1); return err }, "/tv/airing_today", nil},
		{"TopRatedTV", func(ctx context.Context, c *Client) error { _, err := c.TopRatedTV(ctx, 1); return err }, "/tv/top_rated", nil},
		{"TVSeasons", func(ctx context.Context, c *Client) error { _, err := c.TVSeasons(ctx, 1399); return err }, "/tv/1399", nil},
		{"SimilarTV", func(ctx context.Context, c *Client) error { _, err := c.SimilarTV(ctx, 1399, 1); return err }, "/tv/1399/similar", nil},
		{"TVRecommendations", func(ctx context.Context, c *Client) error { _, err := c.TVRecommendations(ctx, 1399, 1); return err }, "/tv/1399/recommendations", nil},
		{"TVCredits", func(ctx context.Context, c *Client) error { _, err := c.TVCredits(ctx, 1399); return err }, "/tv/1399/credits", nil},
		{"TVVideos", func(ctx context.Context, c *Client) error { _, err := c.TVVideos(ctx, 1399); return err }, "/tv/1399/videos", nil},
		{"TVImages", func(ctx context.Context, c *Client) error { _, err := c.TVImages(ctx, 1399); return err }, "/tv/1399/images", nil},
		{"MoviesByGenre", func(ctx context.Context, c *Client) error { _, err := c.MoviesByGenre(ctx, 28, 1); return err }, "/discover/movie", map[string]string{"with_genres": "28"}},
		{"TVShowsByGenre", func(ctx context.Context, c *Client) error { _, err := c.TVShowsByGenre(ctx, 18, 2); return err }, "/discover/tv", map[string]string{"with_genres": "18", "page": "2"}},
		{"MovieTrending", func(ctx context.Context, c *Client) error { _, err := c.MovieTrending(ctx, 1); return err }, "/trending/movie/day", nil},
		{"TVTrending", func(ctx context.Context, c *Client) error { _, err := c.TVTrending(ctx, 1); return err }, "/trending/tv/day", nil},
		{"PersonTrending", func(ctx context.Context, c *Client) error { _, err := c.PersonTrending(ctx, 1); return err }, "/trending/person/day", nil},
		{"WeeklyTrending", func(ctx context.Context, c *Client) error { _, err := c.WeeklyTrending(ctx, "", 1); return err }, "/trending/all/week", nil},
		{"AllTrending", func(ctx context.Context, c *Client) error { _, err := c.AllTrending(ctx, nil); return err }, "/trending/all/day", nil},
		{"PopularPeople", func(ctx context.Context, c *Client) error { _, err := c.PopularPeople(ctx, 1); return err }, "/person/popular", nil},
		{"SearchPeople", func(ctx context.Context, c *Client) error {
			_, err := c.SearchPeople(ctx, "nolan", 1, SearchOptions{})
			return err
		}, "/search/person", map[string]string{"query": "nolan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, captured := newTestClient(t, okJSON(emptyPageJSON()))

			require.NoError(t, tt.call(context.Background(), client))
			require.Len(t, *captured, 1)
			req := (*captured)[0]
			assert.Equal(t, tt.path, req.Path)
			for key, want := range tt.query {
				assert.Equal(t, want, req.Query.Get(key), key)
			}
		})
	}
}
