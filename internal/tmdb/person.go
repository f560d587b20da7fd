package tmdb

import (
	"context"
	"fmt"
)

func (c *Client) PersonDetail(ctx context.Context, id int64) (*PersonDetail, error) {
	var out PersonDetail
	if err := c.get(ctx, fmt.Sprintf("/person/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PersonImages(ctx context.Context, id int64) (*PersonImages, error) {
	var out PersonImages
	if err := c.get(ctx, fmt.Sprintf("/person/%d/images", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PersonCombinedCredits lists movie and tv work together; each entry carries its media type.
func (c *Client) PersonCombinedCredits(ctx context.Context, id int64) (*PersonCredits, error) {
	return c.personCredits(ctx, id, "combined_credits", "")
}

func (c *Client) PersonMovieCredits(ctx context.Context, id int64) (*PersonCredits, error) {
	return c.personCredits(ctx, id, "movie_credits", MediaMovie)
}

func (c *Client) PersonTVCredits(ctx context.Context, id int64) (*PersonCredits, error) {
	return c.personCredits(ctx, id, "tv_credits", MediaTV)
}

func (c *Client) personCredits(ctx context.Context, id int64, kind string, media MediaType) (*PersonCredits, error) {
	var out PersonCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/%s", id, kind), nil, &out); err != nil {
		return nil, err
	}
	if media != "" {
		for i := range out.Cast {
			out.Cast[i].MediaType = media
		}
		for i := range out.Crew {
			out.Crew[i].MediaType = media
		}
	}
	return &out, nil
}

func (c *Client) PersonExternalIDs(ctx context.Context, id int64) (*ExternalIDs, error) {
	var out ExternalIDs
	if err := c.get(ctx, fmt.Sprintf("/person/%d/external_ids", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularPeople(ctx context.Context, page int) (*Page[Person], error) {
	var out Page[Person]
	if err := c.get(ctx, "/person/popular", pageParam(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
