package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	has, err := hasColumn(context.Background(), s2.sqldb, "preferences", "region")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPreferencesUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.GetPreferences(ctx, "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)

	prefs := &Preferences{
		ClientID:  "c1",
		Locale:    sql.Null[string]{V: "en-US", Valid: true},
		ThemeMode: "dark",
	}
	require.NoError(t, s.SavePreferences(ctx, prefs))

	got, err := s.GetPreferences(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "en-US", got.Locale.V)
	assert.False(t, got.Region.Valid)
	assert.Equal(t, "dark", got.ThemeMode)
	created := got.CreatedAt

	prefs.Region = sql.Null[string]{V: "JP", Valid: true}
	prefs.ThemeMode = "system"
	require.NoError(t, s.SavePreferences(ctx, prefs))

	got, err = s.GetPreferences(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "JP", got.Region.V)
	assert.Equal(t, "system", got.ThemeMode)
	assert.Equal(t, created, got.CreatedAt)

	require.NoError(t, s.DeletePreferences(ctx, "c1"))
	require.ErrorIs(t, s.DeletePreferences(ctx, "c1"), sql.ErrNoRows)
}

func TestSavePreferencesRequiresClient(t *testing.T) {
	s := openTestStore(t)
	require.Error(t, s.SavePreferences(context.Background(), &Preferences{ThemeMode: "light"}))
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var dst []string
	ok, err := s.LoadSnapshot(ctx, "regions:zh-CN", &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveSnapshot(ctx, "regions:zh-CN", []string{"US", "JP"}))
	require.NoError(t, s.SaveSnapshot(ctx, "regions:zh-CN", []string{"CN"}))

	ok, err = s.LoadSnapshot(ctx, "regions:zh-CN", &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"CN"}, dst)
}

func TestRatings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertRating(ctx, &Rating{ClientID: "c1", TMDBID: 550, MediaType: "movie", Value: 7}))
	require.NoError(t, s.UpsertRating(ctx, &Rating{ClientID: "c1", TMDBID: 550, MediaType: "movie", Value: 8.5}))
	require.NoError(t, s.UpsertRating(ctx, &Rating{ClientID: "c1", TMDBID: 1399, MediaType: "tv", Value: 9}))
	require.NoError(t, s.UpsertRating(ctx, &Rating{ClientID: "c2", TMDBID: 550, MediaType: "movie", Value: 3}))

	list, err := s.ListRatings(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	got, err := s.RatingsFor(ctx, "c1", []TMDBRef{
		{ID: 550, MediaType: "movie"},
		{ID: 550, MediaType: "movie"},
		{ID: 550, MediaType: "tv"},
		{ID: 1399, MediaType: "tv"},
		{ID: 0, MediaType: "movie"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[TMDBRef]float64{
		{ID: 550, MediaType: "movie"}: 8.5,
		{ID: 1399, MediaType: "tv"}:   9,
	}, got)

	empty, err := s.RatingsFor(ctx, "", []TMDBRef{{ID: 550, MediaType: "movie"}})
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.DeleteRating(ctx, "c1", TMDBRef{ID: 550, MediaType: "movie"}))
	require.ErrorIs(t, s.DeleteRating(ctx, "c1", TMDBRef{ID: 550, MediaType: "movie"}), sql.ErrNoRows)
}
