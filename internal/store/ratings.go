package store

import (
	"context"
	"strings"

	"github.com/uptrace/bun"
)

// Rating is a rating a visitor submitted upstream, kept so the UI can show it back.
type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r" json:"-"`

	ID        int64   `bun:"id,pk,autoincrement" json:"-"`
	ClientID  string  `bun:"client_id,notnull" json:"-"`
	TMDBID    int64   `bun:"tmdb_id,notnull" json:"tmdb_id"`
	MediaType string  `bun:"media_type,notnull" json:"media_type"`
	Value     float64 `bun:"value,notnull" json:"value"`
	CreatedAt string  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt string  `bun:"updated_at,notnull" json:"updated_at"`
}

type TMDBRef struct {
	ID        int64  `bun:"tmdb_id"`
	MediaType string `bun:"media_type"`
}

func (s *Store) UpsertRating(ctx context.Context, r *Rating) error {
	ts := now()
	rt := *r
	rt.ID = 0
	rt.CreatedAt = ts
	rt.UpdatedAt = ts

	_, err := s.db.NewInsert().
		Model(&rt).
		Column("client_id", "tmdb_id", "media_type", "value", "created_at", "updated_at").
		On("CONFLICT (client_id, tmdb_id, media_type) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// DeleteRating returns sql.ErrNoRows when nothing was rated.
func (s *Store) DeleteRating(ctx context.Context, clientID string, ref TMDBRef) error {
	res, err := s.db.NewDelete().
		Model((*Rating)(nil)).
		Where("client_id = ?", clientID).
		Where("tmdb_id = ?", ref.ID).
		Where("media_type = ?", ref.MediaType).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func (s *Store) ListRatings(ctx context.Context, clientID string) (out []Rating, err error) {
	err = s.db.NewSelect().
		Model(&out).
		Where("client_id = ?", clientID).
		Order("updated_at DESC", "id DESC").
		Scan(ctx)
	return out, err
}

// RatingsFor returns the client's ratings for the given titles keyed by ref.
func (s *Store) RatingsFor(ctx context.Context, clientID string, refs []TMDBRef) (map[TMDBRef]float64, error) {
	out := make(map[TMDBRef]float64, len(refs))

	seen := make(map[TMDBRef]struct{}, len(refs))
	var uniq []TMDBRef
	for _, ref := range refs {
		ref.MediaType = strings.TrimSpace(ref.MediaType)
		if ref.ID == 0 || ref.MediaType == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		uniq = append(uniq, ref)
	}
	if clientID == "" || len(uniq) == 0 {
		return out, nil
	}

	var found []Rating
	err := s.db.NewSelect().
		Model(&found).
		Where("client_id = ?", clientID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, ref := range uniq {
				q = q.WhereOr("tmdb_id = ? AND media_type = ?", ref.ID, ref.MediaType)
			}
			return q
		}).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range found {
		out[TMDBRef{ID: r.TMDBID, MediaType: r.MediaType}] = r.Value
	}
	return out, nil
}
