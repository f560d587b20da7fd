package tmdb

import "context"

func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	return c.genres(ctx, MediaMovie)
}

func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	return c.genres(ctx, MediaTV)
}

func (c *Client) genres(ctx context.Context, media MediaType) ([]Genre, error) {
	var out genreList
	if err := c.get(ctx, "/genre/"+string(media)+"/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// MoviesByGenre hits discover with only the genre and page, leaving sorting to the API.
func (c *Client) MoviesByGenre(ctx context.Context, genreID, page int) (*Page[Movie], error) {
	var out Page[Movie]
	params := Merge(Params{"with_genres": genreID}, pageParam(page))
	if err := c.get(ctx, "/discover/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TVShowsByGenre(ctx context.Context, genreID, page int) (*Page[TVShow], error) {
	var out Page[TVShow]
	params := Merge(Params{"with_genres": genreID}, pageParam(page))
	if err := c.get(ctx, "/discover/tv", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
