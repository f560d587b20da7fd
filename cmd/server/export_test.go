package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/movie-discovery/internal/config"
	"github.com/handsomefox/movie-discovery/internal/logger"
)

func fakeList(totalItems int) (pageFunc, *[]int) {
	var pages []int
	return func(_ context.Context, page int) ([]any, int, error) {
		pages = append(pages, page)
		var items []any
		for i := (page - 1) * 20; i < min(page*20, totalItems); i++ {
			items = append(items, map[string]int{"id": i})
		}
		return items, totalItems, nil
	}, &pages
}

func TestExportPagesStopsAtMaxPages(t *testing.T) {
	fetch, pages := fakeList(100)
	var buf bytes.Buffer

	n, err := exportPages(context.Background(), fetch, &buf, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.Equal(t, []int{1, 2, 3}, *pages)
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 60)
}

func TestExportPagesStopsAtListEnd(t *testing.T) {
	fetch, pages := fakeList(30)
	var buf bytes.Buffer

	n, err := exportPages(context.Background(), fetch, &buf, 10, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, []int{1, 2}, *pages)
}

func TestExportPagesSinglePage(t *testing.T) {
	fetch, pages := fakeList(5)
	n, err := exportPages(context.Background(), fetch, &bytes.Buffer{}, 10, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{1}, *pages)
}

func TestExportPagesAbortsAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(_ context.Context, page int) ([]any, int, error) {
		calls++
		if page == 1 {
			return []any{map[string]int{"id": 1}}, 100, nil
		}
		return nil, 0, boom
	}

	n, err := exportPages(context.Background(), fetch, &bytes.Buffer{}, 5, time.Millisecond)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1+maxExportFailures, calls)
}

func TestListFetcherRejectsUnknownLists(t *testing.T) {
	for _, list := range []string{"trending/movie/month", "movie/bogus", "tv/bogus", "people", "trending/books/day"} {
		_, err := listFetcher(nil, list)
		assert.Error(t, err, list)
	}
	_, err := listFetcher(nil, "trending/all/day")
	assert.NoError(t, err)
}

func TestNewLoggerWrapsExitLevel(t *testing.T) {
	plain := newLogger(&config.Config{Env: config.Production, Log: config.LogConfig{Level: "info"}})
	_, wrapped := plain.Handler().(*logger.ExitOnLevel)
	assert.False(t, wrapped)

	exiting := newLogger(&config.Config{Env: config.Production, Log: config.LogConfig{Level: "info", ExitLevel: "error"}})
	_, wrapped = exiting.Handler().(*logger.ExitOnLevel)
	assert.True(t, wrapped)
	assert.True(t, exiting.Enabled(context.Background(), slog.LevelError))
}
