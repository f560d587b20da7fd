package state

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

type CountrySource interface {
	Countries(ctx context.Context) ([]tmdb.Country, error)
}

type RegionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type regionEntry struct {
	items  []RegionOption
	loaded bool
}

// Regions caches the selectable production regions per locale.
type Regions struct {
	source CountrySource
	snaps  store.Snapshotter

	mu      sync.RWMutex
	entries map[string]*regionEntry
}

// NewRegions builds an empty cache. snaps may be nil.
func NewRegions(source CountrySource, snaps store.Snapshotter) *Regions {
	return &Regions{source: source, snaps: snaps, entries: make(map[string]*regionEntry)}
}

func regionSnapshotKey(locale string) string { return "regions:" + locale }

// Load is a no-op once a non-empty list is loaded. On failure the list is reset
// to empty and marked not loaded.
func (rg *Regions) Load(ctx context.Context, locale string) error {
	locale = cacheLocale(locale)
	if items, loaded := rg.List(locale); loaded && len(items) > 0 {
		return nil
	}
	if rg.restore(ctx, locale) {
		return nil
	}

	items, err := rg.fetch(ctx, locale)
	if err != nil {
		slog.Warn("failed to fetch regions", slog.String("locale", locale), logger.Error(err))
		rg.mu.Lock()
		rg.entries[locale] = &regionEntry{items: []RegionOption{}, loaded: false}
		rg.mu.Unlock()
		return err
	}
	rg.put(ctx, locale, items)
	return nil
}

// Refresh refetches the list. A failure keeps whatever was loaded before.
func (rg *Regions) Refresh(ctx context.Context, locale string) error {
	locale = cacheLocale(locale)
	items, err := rg.fetch(ctx, locale)
	if err != nil {
		slog.Warn("failed to refresh regions", slog.String("locale", locale), logger.Error(err))
		return err
	}
	rg.put(ctx, locale, items)
	return nil
}

func (rg *Regions) fetch(ctx context.Context, locale string) ([]RegionOption, error) {
	countries, err := rg.source.Countries(tmdb.WithLocale(ctx, locale))
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	items := make([]RegionOption, 0, len(countries))
	for _, c := range countries {
		if strings.TrimSpace(c.ISO31661) == "" {
			continue
		}
		items = append(items, RegionOption{Value: c.ISO31661, Label: c.EnglishName})
	}
	slices.SortFunc(items, func(a, b RegionOption) int {
		nameA := strings.ToLower(strings.TrimSpace(a.Label))
		nameB := strings.ToLower(strings.TrimSpace(b.Label))
		if nameA == nameB {
			return strings.Compare(a.Value, b.Value)
		}
		return strings.Compare(nameA, nameB)
	})
	return items, nil
}

func (rg *Regions) put(ctx context.Context, locale string, items []RegionOption) {
	rg.mu.Lock()
	rg.entries[locale] = &regionEntry{items: items, loaded: true}
	rg.mu.Unlock()

	if rg.snaps == nil {
		return
	}
	if err := rg.snaps.SaveSnapshot(ctx, regionSnapshotKey(locale), items); err != nil {
		slog.Warn("failed to save region snapshot", slog.String("locale", locale), logger.Error(err))
	}
}

func (rg *Regions) restore(ctx context.Context, locale string) bool {
	if rg.snaps == nil {
		return false
	}
	var items []RegionOption
	ok, err := rg.snaps.LoadSnapshot(ctx, regionSnapshotKey(locale), &items)
	if err != nil {
		slog.Warn("failed to load region snapshot", slog.String("locale", locale), logger.Error(err))
		return false
	}
	if !ok || len(items) == 0 {
		return false
	}
	rg.mu.Lock()
	rg.entries[locale] = &regionEntry{items: items, loaded: true}
	rg.mu.Unlock()
	return true
}

// List returns a copy of the list for locale and whether it is loaded.
func (rg *Regions) List(locale string) ([]RegionOption, bool) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	e := rg.entries[cacheLocale(locale)]
	if e == nil {
		return []RegionOption{}, false
	}
	return slices.Clone(e.items), e.loaded
}

// Label returns the label of a region code, or the code itself when unknown.
func (rg *Regions) Label(locale, code string) string {
	items, _ := rg.List(locale)
	for _, item := range items {
		if strings.EqualFold(item.Value, code) {
			return item.Label
		}
	}
	return code
}
