package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/handsomefox/movie-discovery/internal/config"
	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/paging"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

type ExportCmd struct {
	List     string        `default:"trending/movie/week" help:"trending/{media}/{window}, movie/{list} or tv/{list}."`
	Pages    int           `default:"5" help:"Maximum number of pages to fetch."`
	Interval time.Duration `default:"300ms" help:"Pause between page loads."`
	Locale   string        `help:"Response language. Defaults to the configured locale."`
	Out      string        `short:"o" help:"Output file. Writes to stdout when empty." type:"path"`
}

// maxExportFailures consecutive page failures abort an export.
const maxExportFailures = 3

// pageFunc loads one page of a list and returns its items with the remote total.
type pageFunc func(ctx context.Context, page int) (items []any, total int, err error)

func (e *ExportCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg))

	if e.Pages < 1 {
		return errors.New("--pages must be at least 1")
	}
	client := newTMDBClient(cfg)
	fetch, err := listFetcher(client, e.List)
	if err != nil {
		return err
	}
	if e.Locale != "" {
		ctx = tmdb.WithLocale(ctx, e.Locale)
	}

	var out io.Writer = os.Stdout
	if e.Out != "" {
		f, err := os.Create(e.Out)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Error("Failed to close output", logger.Error(err))
			}
		}()
		out = f
	}
	bw := bufio.NewWriter(out)
	n, err := exportPages(ctx, fetch, bw, e.Pages, e.Interval)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	slog.Info("export finished", slog.String("list", e.List), slog.Int("items", n))
	return err
}

// exportPages writes the first page, then lets a paging driver pull the rest on
// every interval tick until maxPages or the end of the list.
func exportPages(ctx context.Context, fetch pageFunc, w io.Writer, maxPages int, interval time.Duration) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc := json.NewEncoder(w)
	written := 0
	failures := 0
	var lastErr error

	load := func(ctx context.Context, page int) (int, error) {
		items, total, err := fetch(ctx, page)
		if err != nil {
			failures++
			lastErr = err
			if failures >= maxExportFailures {
				cancel()
			}
			return 0, err
		}
		failures = 0
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				lastErr = err
				cancel()
				return 0, err
			}
			written++
		}
		if len(items) == 0 {
			// An empty page means the remote total overstated what is reachable.
			return page * paging.DefaultPageSize, nil
		}
		return min(total, maxPages*paging.DefaultPageSize), nil
	}

	total, err := load(ctx, 1)
	if err != nil {
		return written, err
	}
	if total <= paging.DefaultPageSize {
		return written, nil
	}
	driver := paging.New(load, paging.Options{LoadDelay: -1, TotalItems: total})
	if !driver.HasMore() {
		return written, nil
	}

	signals := make(chan struct{})
	go func() {
		ticker := time.NewTicker(max(interval, time.Millisecond))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case signals <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	if err := driver.Observe(ctx, signals); err != nil {
		if lastErr != nil {
			return written, lastErr
		}
		return written, err
	}
	return written, nil
}

func listFetcher(client *tmdb.Client, list string) (pageFunc, error) {
	parts := strings.Split(strings.Trim(list, "/"), "/")
	switch {
	case len(parts) == 3 && parts[0] == "trending":
		media, err := tmdb.ParseMediaType(parts[1])
		if err != nil {
			return nil, err
		}
		window := tmdb.TimeWindow(parts[2])
		if !window.Valid() {
			return nil, fmt.Errorf("unknown time window %q", parts[2])
		}
		return func(ctx context.Context, page int) ([]any, int, error) {
			return pageItems(client.Trending(ctx, media, window, page))
		}, nil
	case len(parts) == 2 && parts[0] == string(tmdb.MediaMovie):
		name := tmdb.MovieList(parts[1])
		if !name.Valid() {
			return nil, fmt.Errorf("unknown movie list %q", parts[1])
		}
		return func(ctx context.Context, page int) ([]any, int, error) {
			return pageItems(client.MovieList(ctx, name, page))
		}, nil
	case len(parts) == 2 && parts[0] == string(tmdb.MediaTV):
		name := tmdb.TVList(parts[1])
		if !name.Valid() {
			return nil, fmt.Errorf("unknown tv list %q", parts[1])
		}
		return func(ctx context.Context, page int) ([]any, int, error) {
			return pageItems(client.TVList(ctx, name, page))
		}, nil
	}
	return nil, fmt.Errorf("unsupported list %q", list)
}

func pageItems[T any](p *tmdb.Page[T], err error) ([]any, int, error) {
	if err != nil {
		return nil, 0, err
	}
	items := make([]any, 0, len(p.Results))
	for _, item := range p.Results {
		items = append(items, item)
	}
	return items, p.TotalResults, nil
}
