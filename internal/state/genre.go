package state

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

type GenreSource interface {
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	TVGenres(ctx context.Context) ([]tmdb.Genre, error)
}

type GenreSet struct {
	Movie     []tmdb.Genre `json:"movie"`
	TV        []tmdb.Genre `json:"tv"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type genreEntry struct {
	set         GenreSet
	movie       map[int]tmdb.Genre
	tv          map[int]tmdb.Genre
	initialized bool
}

// Genres caches the movie and tv genre lists per locale.
type Genres struct {
	source GenreSource
	snaps  store.Snapshotter
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*genreEntry
	loads   singleflight.Group
}

// NewGenres builds an empty cache. snaps may be nil.
func NewGenres(source GenreSource, snaps store.Snapshotter) *Genres {
	return &Genres{
		source:  source,
		snaps:   snaps,
		now:     time.Now,
		entries: make(map[string]*genreEntry),
	}
}

func genreSnapshotKey(locale string) string { return "genres:" + locale }

func cacheLocale(locale string) string {
	if info, ok := FindLocale(locale); ok {
		return info.Code
	}
	if strings.TrimSpace(locale) == "" {
		return DefaultLocale
	}
	return locale
}

// Initialize fills the cache for locale once. A stored snapshot is used before
// going upstream. Concurrent callers for the same locale share one load.
func (g *Genres) Initialize(ctx context.Context, locale string) error {
	locale = cacheLocale(locale)
	if g.Initialized(locale) {
		return nil
	}
	_, err, _ := g.loads.Do(locale, func() (any, error) {
		if g.Initialized(locale) || g.restore(ctx, locale) {
			return nil, nil
		}
		return nil, g.Refresh(ctx, locale)
	})
	return err
}

// Refresh fetches both lists concurrently. On failure the cached lists are kept.
func (g *Genres) Refresh(ctx context.Context, locale string) error {
	locale = cacheLocale(locale)
	ctx = tmdb.WithLocale(ctx, locale)

	var movie, tv []tmdb.Genre
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		movie, err = g.source.MovieGenres(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		tv, err = g.source.TVGenres(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		slog.Warn("failed to initialize genres", slog.String("locale", locale), logger.Error(err))
		return fmt.Errorf("load genres: %w", err)
	}

	set := GenreSet{Movie: orEmpty(movie), TV: orEmpty(tv), FetchedAt: g.now().UTC()}
	g.put(locale, set)

	if g.snaps != nil {
		if err := g.snaps.SaveSnapshot(ctx, genreSnapshotKey(locale), set); err != nil {
			slog.Warn("failed to save genre snapshot", slog.String("locale", locale), logger.Error(err))
		}
	}
	return nil
}

func (g *Genres) restore(ctx context.Context, locale string) bool {
	if g.snaps == nil {
		return false
	}
	var set GenreSet
	ok, err := g.snaps.LoadSnapshot(ctx, genreSnapshotKey(locale), &set)
	if err != nil {
		slog.Warn("failed to load genre snapshot", slog.String("locale", locale), logger.Error(err))
		return false
	}
	if !ok || len(set.Movie) == 0 && len(set.TV) == 0 {
		return false
	}
	g.put(locale, set)
	return true
}

func (g *Genres) put(locale string, set GenreSet) {
	entry := &genreEntry{
		set:         set,
		movie:       indexGenres(set.Movie),
		tv:          indexGenres(set.TV),
		initialized: true,
	}
	g.mu.Lock()
	g.entries[locale] = entry
	g.mu.Unlock()
}

func indexGenres(items []tmdb.Genre) map[int]tmdb.Genre {
	out := make(map[int]tmdb.Genre, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		out[item.ID] = item
	}
	return out
}

func orEmpty(items []tmdb.Genre) []tmdb.Genre {
	if items == nil {
		return []tmdb.Genre{}
	}
	return items
}

func (g *Genres) entry(locale string) *genreEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entries[cacheLocale(locale)]
}

func (g *Genres) Initialized(locale string) bool {
	e := g.entry(locale)
	return e != nil && e.initialized
}

// Set returns a copy of the cached lists for locale.
func (g *Genres) Set(locale string) GenreSet {
	e := g.entry(locale)
	if e == nil {
		return GenreSet{Movie: []tmdb.Genre{}, TV: []tmdb.Genre{}}
	}
	return GenreSet{
		Movie:     slices.Clone(e.set.Movie),
		TV:        slices.Clone(e.set.TV),
		FetchedAt: e.set.FetchedAt,
	}
}

// List returns the genres for one media type; anything but tv means movie.
func (g *Genres) List(locale string, media tmdb.MediaType) []tmdb.Genre {
	set := g.Set(locale)
	if media == tmdb.MediaTV {
		return set.TV
	}
	return set.Movie
}

func (g *Genres) MovieGenre(locale string, id int) (tmdb.Genre, bool) {
	e := g.entry(locale)
	if e == nil {
		return tmdb.Genre{}, false
	}
	genre, ok := e.movie[id]
	return genre, ok
}

func (g *Genres) TVGenre(locale string, id int) (tmdb.Genre, bool) {
	e := g.entry(locale)
	if e == nil {
		return tmdb.Genre{}, false
	}
	genre, ok := e.tv[id]
	return genre, ok
}

// Names resolves genre ids to names, skipping unknown ids.
func (g *Genres) Names(locale string, media tmdb.MediaType, ids []int) []string {
	lookup := g.MovieGenre
	if media == tmdb.MediaTV {
		lookup = g.TVGenre
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if genre, ok := lookup(locale, id); ok {
			out = append(out, genre.Name)
		}
	}
	return out
}
