package tmdb

import (
	"context"
	"fmt"
	"net/http"
)

// The functions here address movies and tv shows through one code path, keyed by
// media type. Only movie and tv are accepted.

func titlePath(media MediaType, id int64, suffix string) (string, error) {
	if !media.IsTitle() {
		return "", ErrInvalidMediaType
	}
	return fmt.Sprintf("/%s/%d%s", media, id, suffix), nil
}

// Detail decodes the detail payload of a movie or show into dst.
func (c *Client) Detail(ctx context.Context, media MediaType, id int64, dst any) error {
	path, err := titlePath(media, id, "")
	if err != nil {
		return err
	}
	return c.get(ctx, path, nil, dst)
}

func (c *Client) Credits(ctx context.Context, media MediaType, id int64) (*Credits, error) {
	path, err := titlePath(media, id, "/credits")
	if err != nil {
		return nil, err
	}
	var out Credits
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Videos(ctx context.Context, media MediaType, id int64) (*Videos, error) {
	path, err := titlePath(media, id, "/videos")
	if err != nil {
		return nil, err
	}
	var out Videos
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Images lists artwork in every language; the language parameter is dropped.
func (c *Client) Images(ctx context.Context, media MediaType, id int64) (*Images, error) {
	path, err := titlePath(media, id, "/images")
	if err != nil {
		return nil, err
	}
	var out Images
	if err := c.get(ctx, path, Params{"language": ""}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Similar(ctx context.Context, media MediaType, id int64, page int) (*Page[MultiResult], error) {
	return c.relatedTitles(ctx, media, id, "/similar", page)
}

func (c *Client) Recommendations(ctx context.Context, media MediaType, id int64, page int) (*Page[MultiResult], error) {
	return c.relatedTitles(ctx, media, id, "/recommendations", page)
}

func (c *Client) relatedTitles(ctx context.Context, media MediaType, id int64, suffix string, page int) (*Page[MultiResult], error) {
	path, err := titlePath(media, id, suffix)
	if err != nil {
		return nil, err
	}
	var out Page[MultiResult]
	if err := c.get(ctx, path, pageParam(page), &out); err != nil {
		return nil, err
	}
	fillMediaType(&out, media)
	return &out, nil
}

// Rate submits a rating. TV shows are rejected before any request is made.
func (c *Client) Rate(ctx context.Context, media MediaType, id int64, value float64) (*RatingResponse, error) {
	switch media {
	case MediaMovie:
		return c.RateMovie(ctx, id, value)
	case MediaTV:
		return nil, ErrRatingUnsupported
	default:
		return nil, ErrInvalidMediaType
	}
}

// DeleteRating removes a previously submitted movie rating.
func (c *Client) DeleteRating(ctx context.Context, media MediaType, id int64) (*RatingResponse, error) {
	if media != MediaMovie {
		if media == MediaTV {
			return nil, ErrRatingUnsupported
		}
		return nil, ErrInvalidMediaType
	}
	var out RatingResponse
	req := Request{Path: fmt.Sprintf("/movie/%d/rating", id), Method: http.MethodDelete}
	if err := c.Fetch(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
