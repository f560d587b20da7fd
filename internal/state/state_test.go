package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

type memSnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemSnapshots() *memSnapshots { return &memSnapshots{data: map[string][]byte{}} }

func (m *memSnapshots) LoadSnapshot(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memSnapshots) SaveSnapshot(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

type fakeGenres struct {
	calls   atomic.Int32
	err     error
	locales sync.Map
	// block holds MovieGenres until closed.
	block chan struct{}
}

func (f *fakeGenres) MovieGenres(ctx context.Context) ([]tmdb.Genre, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if l, ok := tmdb.LocaleFromContext(ctx); ok {
		f.locales.Store(l, true)
	}
	if f.err != nil {
		return nil, f.err
	}
	return []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}}, nil
}

func (f *fakeGenres) TVGenres(context.Context) ([]tmdb.Genre, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []tmdb.Genre{{ID: 10759, Name: "Action & Adventure"}, {ID: 18, Name: "Drama"}}, nil
}

type fakeCountries struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCountries) Countries(context.Context) ([]tmdb.Country, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []tmdb.Country{
		{ISO31661: "US", EnglishName: "United States of America"},
		{ISO31661: "JP", EnglishName: "Japan"},
		{ISO31661: "", EnglishName: "Nowhere"},
	}, nil
}

type fakePrefStore struct {
	rows map[string]store.Preferences
	err  error
}

func (f *fakePrefStore) GetPreferences(_ context.Context, id string) (store.Preferences, error) {
	row, ok := f.rows[id]
	if !ok {
		return store.Preferences{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakePrefStore) SavePreferences(_ context.Context, p *store.Preferences) error {
	if f.err != nil {
		return f.err
	}
	f.rows[p.ClientID] = *p
	return nil
}

func TestLanguage(t *testing.T) {
	l := NewLanguage("fr-FR", nil)
	assert.Equal(t, DefaultLocale, l.Current())

	assert.False(t, l.SetLocale("xx"))
	assert.True(t, l.SetLocale("en-us"))
	assert.Equal(t, "en-US", l.Current())

	info, ok := l.CurrentInfo()
	require.True(t, ok)
	assert.Equal(t, "English", info.Name)
	assert.Len(t, l.Available(), 5)
	for _, other := range l.Others() {
		assert.NotEqual(t, "en-US", other.Code)
	}
	assert.Len(t, l.Others(), 4)
}

func TestLanguageSwitch(t *testing.T) {
	var persisted []string
	l := NewLanguage("en-US", func(_ context.Context, code string) error {
		persisted = append(persisted, code)
		return nil
	})

	require.NoError(t, l.Switch(context.Background(), "en-US"))
	assert.Empty(t, persisted)

	require.NoError(t, l.Switch(context.Background(), "ja-JP"))
	assert.Equal(t, "ja-JP", l.Current())
	assert.Equal(t, []string{"ja-JP"}, persisted)

	require.Error(t, l.Switch(context.Background(), "xx-XX"))
	assert.Equal(t, "ja-JP", l.Current())
}

func TestLanguageSwitchRollsBack(t *testing.T) {
	l := NewLanguage("en-US", func(context.Context, string) error { return errors.New("disk full") })
	err := l.Switch(context.Background(), "ko-KR")
	require.Error(t, err)
	assert.Equal(t, "en-US", l.Current())
}

func TestResolveLocale(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, DefaultLocale, ResolveLocale(r, "", ""))

	r.Header.Set("Accept-Language", "ja,en;q=0.8")
	assert.Equal(t, "ja-JP", ResolveLocale(r, "", ""))

	r.Header.Set("Accept-Language", "sw")
	assert.Equal(t, DefaultLocale, ResolveLocale(r, "", ""))
	assert.Equal(t, "en-US", ResolveLocale(r, "", "en-us"))
	assert.Equal(t, "fr-FR", ResolveLocale(r, "", "fr-FR"))

	r.Header.Set("Accept-Language", "en-GB")
	assert.Equal(t, "en-US", ResolveLocale(r, "", ""))

	r.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "ko-KR"})
	assert.Equal(t, "ko-KR", ResolveLocale(r, "", ""))
	assert.Equal(t, "ar-SA", ResolveLocale(r, "ar-sa", ""))
	assert.Equal(t, "ko-KR", ResolveLocale(r, "bogus", ""))
}

func TestTheme(t *testing.T) {
	th := NewTheme("", SchemeDark)
	assert.Equal(t, ThemeSystem, th.Mode())
	assert.True(t, th.IsSystem())
	assert.True(t, th.IsDark())

	th.SetSystemScheme(SchemeLight)
	assert.True(t, th.IsLight())

	th.Toggle()
	assert.Equal(t, ThemeDark, th.Mode())
	assert.True(t, th.IsDark())

	th.SetSystemScheme(SchemeLight)
	assert.True(t, th.IsDark())

	th.Toggle()
	assert.Equal(t, ThemeLight, th.Mode())

	th.SetTheme("sepia")
	assert.Equal(t, ThemeLight, th.Mode())
}

func TestSystemScheme(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, SchemeLight, SystemScheme(r))
	r.Header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)
	assert.Equal(t, SchemeDark, SystemScheme(r))
}

func TestGenresInitialize(t *testing.T) {
	ctx := context.Background()
	src := &fakeGenres{}
	snaps := newMemSnapshots()
	g := NewGenres(src, snaps)

	assert.False(t, g.Initialized("en-US"))
	require.NoError(t, g.Initialize(ctx, "en-US"))
	require.NoError(t, g.Initialize(ctx, "en-US"))
	assert.EqualValues(t, 2, src.calls.Load())
	_, ok := src.locales.Load("en-US")
	assert.True(t, ok)

	assert.True(t, g.Initialized("en-US"))
	assert.False(t, g.Initialized("zh-CN"))

	genre, ok := g.MovieGenre("en-US", 28)
	require.True(t, ok)
	assert.Equal(t, "Action", genre.Name)
	_, ok = g.TVGenre("en-US", 28)
	assert.False(t, ok)
	assert.Equal(t, []string{"Action & Adventure", "Drama"}, g.Names("en-US", tmdb.MediaTV, []int{10759, 1, 18}))
	assert.Len(t, g.List("en-US", tmdb.MediaMovie), 2)

	restored := NewGenres(&fakeGenres{err: errors.New("offline")}, snaps)
	require.NoError(t, restored.Initialize(ctx, "en-US"))
	assert.Len(t, restored.Set("en-US").TV, 2)
}

func TestGenresFailure(t *testing.T) {
	g := NewGenres(&fakeGenres{err: errors.New("boom")}, nil)
	require.Error(t, g.Initialize(context.Background(), "zh-CN"))
	assert.False(t, g.Initialized("zh-CN"))
	set := g.Set("zh-CN")
	assert.NotNil(t, set.Movie)
	assert.Empty(t, set.Movie)
}

func TestGenresConcurrentInitializeLoadsOnce(t *testing.T) {
	src := &fakeGenres{block: make(chan struct{})}
	g := NewGenres(src, nil)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- g.Initialize(context.Background(), "en-US")
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, src.calls.Load())
	assert.True(t, g.Initialized("en-US"))
}

func TestRegionsLoad(t *testing.T) {
	ctx := context.Background()
	src := &fakeCountries{}
	rg := NewRegions(src, newMemSnapshots())

	require.NoError(t, rg.Load(ctx, "en-US"))
	require.NoError(t, rg.Load(ctx, "en-US"))
	assert.EqualValues(t, 1, src.calls.Load())

	items, loaded := rg.List("en-US")
	assert.True(t, loaded)
	assert.Equal(t, []RegionOption{
		{Value: "JP", Label: "Japan"},
		{Value: "US", Label: "United States of America"},
	}, items)
	assert.Equal(t, "Japan", rg.Label("en-US", "jp"))
	assert.Equal(t, "XX", rg.Label("en-US", "XX"))
}

func TestRegionsLoadFailureResets(t *testing.T) {
	src := &fakeCountries{err: errors.New("boom")}
	rg := NewRegions(src, nil)
	require.Error(t, rg.Load(context.Background(), "en-US"))
	items, loaded := rg.List("en-US")
	assert.False(t, loaded)
	assert.Empty(t, items)
}

func TestRegionsRefreshKeepsListOnFailure(t *testing.T) {
	ctx := context.Background()
	src := &fakeCountries{}
	rg := NewRegions(src, nil)
	require.NoError(t, rg.Load(ctx, "en-US"))

	src.err = errors.New("boom")
	require.Error(t, rg.Refresh(ctx, "en-US"))
	items, loaded := rg.List("en-US")
	assert.True(t, loaded)
	assert.Len(t, items, 2)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	ps := &fakePrefStore{rows: map[string]store.Preferences{}}

	prefs, err := LoadPreferences(ctx, ps, "c1")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences("c1"), prefs)

	prefs.Locale = "ja-jp"
	prefs.Region = "jp"
	require.NoError(t, SavePreferences(ctx, ps, prefs))

	got, err := LoadPreferences(ctx, ps, "c1")
	require.NoError(t, err)
	assert.Equal(t, Preferences{ClientID: "c1", Locale: "ja-JP", Region: "JP", ThemeMode: ThemeSystem}, got)

	bad := got
	bad.Region = "USA"
	require.Error(t, SavePreferences(ctx, ps, bad))
	bad = got
	bad.ThemeMode = "neon"
	require.Error(t, SavePreferences(ctx, ps, bad))
}

func TestLocalePersister(t *testing.T) {
	ctx := context.Background()
	ps := &fakePrefStore{rows: map[string]store.Preferences{}}
	prefs := DefaultPreferences("c1")

	l := NewLanguage("en-US", LocalePersister(ps, &prefs))
	require.NoError(t, l.Switch(ctx, "zh-CN"))
	assert.Equal(t, "zh-CN", prefs.Locale)
	assert.Equal(t, "zh-CN", ps.rows["c1"].Locale.V)

	ps.err = errors.New("locked")
	require.Error(t, l.Switch(ctx, "ar-SA"))
	assert.Equal(t, "zh-CN", l.Current())
	assert.Equal(t, "zh-CN", prefs.Locale)
}
