// Package paging drives incremental loading of a paginated list.
//
// A Driver tracks the current page and whether more items remain, computed as
// currentPage*pageSize < totalItems. Callers either call LoadMore directly or hand
// a stream of "near the end" signals to Observe.
package paging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/timing"
)

const (
	DefaultPageSize  = 20
	DefaultLoadDelay = 300 * time.Millisecond
)

// LoadFunc loads page and returns the latest known total item count.
type LoadFunc func(ctx context.Context, page int) (total int, err error)

type Options struct {
	PageSize int
	// LoadDelay is waited before every load. Negative disables it; zero means the default.
	LoadDelay time.Duration
	// Debounce coalesces Observe signals arriving closer together than this.
	Debounce time.Duration
	// TotalItems seeds the total. Zero means unknown, in which case more is assumed.
	TotalItems int
	Disabled   bool
}

type Driver struct {
	load     LoadFunc
	pageSize int
	delay    time.Duration
	debounce time.Duration
	enabled  bool

	mu         sync.Mutex
	page       int
	loading    bool
	hasMore    bool
	total      int
	totalKnown bool
}

func New(load LoadFunc, opts Options) *Driver {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	switch {
	case opts.LoadDelay == 0:
		opts.LoadDelay = DefaultLoadDelay
	case opts.LoadDelay < 0:
		opts.LoadDelay = 0
	}
	d := &Driver{
		load:       load,
		pageSize:   opts.PageSize,
		delay:      opts.LoadDelay,
		debounce:   opts.Debounce,
		enabled:    !opts.Disabled,
		page:       1,
		hasMore:    true,
		total:      opts.TotalItems,
		totalKnown: opts.TotalItems > 0,
	}
	d.recompute()
	return d
}

// recompute must be called with mu held.
func (d *Driver) recompute() {
	if !d.totalKnown {
		d.hasMore = true
		return
	}
	d.hasMore = d.page*d.pageSize < d.total
}

// LoadMore loads the next page unless a load is in flight, nothing remains or the
// driver is disabled. It reports whether a page was loaded. On a loader error the
// page is left unchanged and the error is returned.
func (d *Driver) LoadMore(ctx context.Context) (bool, error) {
	d.mu.Lock()
	if d.loading || !d.hasMore || !d.enabled {
		d.mu.Unlock()
		return false, nil
	}
	d.loading = true
	next := d.page + 1
	d.mu.Unlock()

	total, err := d.loadPage(ctx, next)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		slog.Warn("paging: load failed", slog.Int("page", next), logger.Error(err))
		return false, err
	}
	d.page = next
	d.total = total
	d.totalKnown = true
	d.recompute()
	return true, nil
}

func (d *Driver) loadPage(ctx context.Context, page int) (int, error) {
	if err := timing.Delay(ctx, d.delay); err != nil {
		return 0, err
	}
	return d.load(ctx, page)
}

// Reset returns to the first page and recomputes whether more remain.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = 1
	d.hasMore = true
	d.recompute()
}

// SetHasMore overrides the computed flag until the next recompute.
func (d *Driver) SetHasMore(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hasMore = v
}

func (d *Driver) SetCurrentPage(page int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if page < 1 {
		page = 1
	}
	d.page = page
	d.recompute()
}

func (d *Driver) SetTotal(total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.total = total
	d.totalKnown = true
	d.recompute()
}

func (d *Driver) CurrentPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

func (d *Driver) HasMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasMore
}

func (d *Driver) IsLoading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

func (d *Driver) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total
}

// Observe loads a page for each signal, debounced by Options.Debounce. It returns
// nil once nothing more remains or signals is closed, and ctx.Err() when ctx ends.
// Loader errors are logged and observation continues.
func (d *Driver) Observe(ctx context.Context, signals <-chan struct{}) error {
	if !d.enabled {
		return nil
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		if !d.HasMore() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-signals:
			if !ok {
				return nil
			}
			if d.debounce <= 0 {
				_, _ = d.LoadMore(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(d.debounce)
			} else {
				timer.Reset(d.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_, _ = d.LoadMore(ctx)
		}
	}
}
