package tmdb

import "context"

// Countries lists the ISO 3166-1 countries known to TMDB, labelled in the active locale.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := c.get(ctx, "/configuration/countries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
