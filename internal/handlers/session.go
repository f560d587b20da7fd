package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/handsomefox/movie-discovery/internal/catalog"
	"github.com/handsomefox/movie-discovery/internal/device"
	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/state"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

type themeResponse struct {
	Mode    state.ThemeMode     `json:"mode"`
	Current state.Scheme        `json:"current"`
	IsDark  bool                `json:"is_dark"`
	Options []state.ThemeOption `json:"options"`
}

type languageResponse struct {
	Current   string             `json:"current"`
	Info      state.LocaleInfo   `json:"info"`
	Available []state.LocaleInfo `json:"available"`
	Others    []state.LocaleInfo `json:"others"`
}

type sessionResponse struct {
	ClientID     string            `json:"client_id"`
	Preferences  state.Preferences `json:"preferences"`
	Language     languageResponse  `json:"language"`
	Theme        themeResponse     `json:"theme"`
	Device       device.Screen     `json:"device"`
	ImageBaseURL string            `json:"image_base_url"`
}

func newThemeResponse(t *state.Theme) themeResponse {
	return themeResponse{
		Mode:    t.Mode(),
		Current: t.Current(),
		IsDark:  t.IsDark(),
		Options: state.ThemeOptions,
	}
}

func newLanguageResponse(l *state.Language) languageResponse {
	info, _ := l.CurrentInfo()
	return languageResponse{
		Current:   l.Current(),
		Info:      info,
		Available: l.Available(),
		Others:    l.Others(),
	}
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) error {
	v := visitorFrom(r.Context())
	writeJSON(w, http.StatusOK, &sessionResponse{
		ClientID:     v.ClientID,
		Preferences:  v.Prefs,
		Language:     newLanguageResponse(state.NewLanguage(v.Locale, nil)),
		Theme:        newThemeResponse(state.NewTheme(v.Prefs.ThemeMode, v.System)),
		Device:       v.Screen,
		ImageBaseURL: h.tmdb.ImageBaseURL(),
	})
	return nil
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, visitorFrom(r.Context()).Prefs)
	return nil
}

type preferencesRequest struct {
	Locale    *string `json:"locale"`
	Region    *string `json:"region"`
	ThemeMode *string `json:"theme_mode"`
}

func (h *Handler) putPreferences(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	v := visitorFrom(ctx)

	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("invalid json")
	}

	next := v.Prefs
	if req.Locale != nil {
		next.Locale = *req.Locale
	}
	if req.Region != nil {
		next.Region = *req.Region
	}
	if req.ThemeMode != nil {
		next.ThemeMode = state.ThemeMode(*req.ThemeMode)
	}
	if err := next.Validate(); err != nil {
		return badRequest(err.Error())
	}
	if err := state.SavePreferences(ctx, h.store, next); err != nil {
		return internal(err)
	}
	if next.Locale != "" {
		h.setLocaleCookie(w, next.Locale)
	}

	writeJSON(w, http.StatusOK, next)
	return nil
}

type localeRequest struct {
	Locale string `json:"locale"`
}

// putLocale switches the visitor's language. The stored preference and the i18n
// cookie only change when saving succeeds.
func (h *Handler) putLocale(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	v := visitorFrom(ctx)

	var req localeRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("invalid json")
	}
	if _, ok := state.FindLocale(req.Locale); !ok {
		return badRequest("unsupported locale")
	}

	prefs := v.Prefs
	lang := state.NewLanguage(v.Locale, state.LocalePersister(h.store, &prefs))
	if err := lang.Switch(ctx, req.Locale); err != nil {
		return internal(err)
	}
	h.setLocaleCookie(w, lang.Current())

	writeJSON(w, http.StatusOK, newLanguageResponse(lang))
	return nil
}

func (h *Handler) postThemeToggle(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	v := visitorFrom(ctx)

	theme := state.NewTheme(v.Prefs.ThemeMode, v.System)
	theme.Toggle()

	next := v.Prefs
	next.ThemeMode = theme.Mode()
	if err := state.SavePreferences(ctx, h.store, next); err != nil {
		return internal(err)
	}

	writeJSON(w, http.StatusOK, newThemeResponse(theme))
	return nil
}

type catalogResponse struct {
	MediaType        string           `json:"media_type"`
	SortOptions      []catalog.Option `json:"sort_options"`
	ReleaseTypes     []catalog.Option `json:"release_types"`
	UILanguages      []catalog.Option `json:"ui_languages"`
	ContentLanguages []catalog.Option `json:"content_languages"`
	Regions          []catalog.Option `json:"regions"`
	Filters          []string         `json:"filters"`
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) error {
	media := strings.TrimSpace(r.URL.Query().Get("media_type"))
	if media == "" {
		media = string(tmdb.MediaMovie)
	}
	if media != string(tmdb.MediaMovie) && media != string(tmdb.MediaTV) {
		return badRequest("media_type must be movie or tv")
	}

	filters := append([]string(nil), catalog.CommonFilters...)
	if media == string(tmdb.MediaTV) {
		filters = append(filters, catalog.TVOnlyFilters...)
	} else {
		filters = append(filters, catalog.MovieOnlyFilters...)
	}

	resp := &catalogResponse{
		MediaType:        media,
		SortOptions:      catalog.SortOptions(media),
		ContentLanguages: catalog.ContentLanguageOptions,
		UILanguages:      catalog.UILanguageOptions,
		Regions:          catalog.RegionOptions,
		Filters:          filters,
	}
	if media == string(tmdb.MediaMovie) {
		resp.ReleaseTypes = catalog.ReleaseTypeOptions
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

type genresResponse struct {
	Locale      string       `json:"locale"`
	Initialized bool         `json:"initialized"`
	Movie       []tmdb.Genre `json:"movie,omitempty"`
	TV          []tmdb.Genre `json:"tv,omitempty"`
}

func (h *Handler) getGenres(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	locale := visitorFrom(ctx).Locale

	if err := h.genres.Initialize(ctx, locale); err != nil {
		return upstream(err)
	}

	resp := &genresResponse{Locale: locale, Initialized: h.genres.Initialized(locale)}
	switch media := strings.TrimSpace(r.URL.Query().Get("media_type")); media {
	case "", "all":
		set := h.genres.Set(locale)
		resp.Movie = set.Movie
		resp.TV = set.TV
	case string(tmdb.MediaMovie):
		resp.Movie = h.genres.List(locale, tmdb.MediaMovie)
	case string(tmdb.MediaTV):
		resp.TV = h.genres.List(locale, tmdb.MediaTV)
	default:
		return badRequest("media_type must be movie, tv or all")
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *Handler) postGenresRefresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	locale := visitorFrom(ctx).Locale

	var err error
	ran := h.refreshThrottle.Do(func() {
		err = h.genres.Refresh(ctx, locale)
	})
	if !ran {
		return &Error{Status: http.StatusTooManyRequests, Message: "refresh already requested recently"}
	}
	if err != nil {
		return upstream(err)
	}
	if h.scheduler != nil {
		h.scheduler.Trigger()
	}

	writeJSON(w, http.StatusOK, &genresResponse{
		Locale:      locale,
		Initialized: true,
		Movie:       h.genres.List(locale, tmdb.MediaMovie),
		TV:          h.genres.List(locale, tmdb.MediaTV),
	})
	return nil
}

type regionsResponse struct {
	Regions []state.RegionOption `json:"regions"`
	Loaded  bool                 `json:"loaded"`
}

// getRegions never fails: a failed load yields an empty, not loaded list.
func (h *Handler) getRegions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	locale := visitorFrom(ctx).Locale

	if err := h.regions.Load(ctx, locale); err != nil {
		slog.Debug("serving empty region list", logger.Error(err))
	}
	items, loaded := h.regions.List(locale)
	writeJSON(w, http.StatusOK, &regionsResponse{Regions: items, Loaded: loaded})
	return nil
}

func (h *Handler) getRefreshStatus(w http.ResponseWriter, r *http.Request) error {
	if h.scheduler == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"running": false})
		return nil
	}
	writeJSON(w, http.StatusOK, h.scheduler.Status())
	return nil
}
