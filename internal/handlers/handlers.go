// Package handlers wires HTTP routing and API handlers.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/movie-discovery/internal/scheduler"
	"github.com/handsomefox/movie-discovery/internal/state"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/timing"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

const refreshInterval = time.Minute

type Handler struct {
	store      *store.Store
	tmdb       *tmdb.Client
	genres     *state.Genres
	regions    *state.Regions
	scheduler  *scheduler.Scheduler
	production bool

	refreshThrottle *timing.Throttle
	// filteredPageLimit caps how many upstream pages one filtered search may pull.
	filteredPageLimit int
	// filteredLoadDelay is the pause between upstream pages in a filtered search.
	filteredLoadDelay time.Duration
}

type Config struct {
	Store   *store.Store
	TMDB    *tmdb.Client
	Genres  *state.Genres
	Regions *state.Regions
	// Scheduler is optional. When set, manual refreshes also queue a refresh of every locale.
	Scheduler  *scheduler.Scheduler
	Production bool
	// FilteredLoadDelay defaults to no pause; negative values are treated as zero.
	FilteredLoadDelay time.Duration
}

func New(cfg *Config) (*Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.TMDB == nil {
		return nil, errors.New("tmdb client is required")
	}
	genres := cfg.Genres
	if genres == nil {
		genres = state.NewGenres(cfg.TMDB, cfg.Store)
	}
	regions := cfg.Regions
	if regions == nil {
		regions = state.NewRegions(cfg.TMDB, cfg.Store)
	}

	return &Handler{
		store:             cfg.Store,
		tmdb:              cfg.TMDB,
		genres:            genres,
		regions:           regions,
		scheduler:         cfg.Scheduler,
		production:        cfg.Production,
		refreshThrottle:   timing.NewThrottle(refreshInterval),
		filteredPageLimit: 10,
		filteredLoadDelay: max(cfg.FilteredLoadDelay, 0),
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Use(h.MiddlewareVisitor)

	r.Method(http.MethodGet, "/session", Adapt(h.getSession))
	r.Method(http.MethodGet, "/preferences", Adapt(h.getPreferences))
	r.Method(http.MethodPut, "/preferences", Adapt(h.putPreferences))
	r.Method(http.MethodPost, "/preferences/theme/toggle", Adapt(h.postThemeToggle))
	r.Method(http.MethodPut, "/preferences/locale", Adapt(h.putLocale))

	r.Method(http.MethodGet, "/catalog", Adapt(h.getCatalog))
	r.Method(http.MethodGet, "/genres", Adapt(h.getGenres))
	r.Method(http.MethodPost, "/genres/refresh", Adapt(h.postGenresRefresh))
	r.Method(http.MethodGet, "/regions", Adapt(h.getRegions))
	r.Method(http.MethodGet, "/refresh/status", Adapt(h.getRefreshStatus))
	r.Method(http.MethodGet, "/ratings", Adapt(h.getRatings))

	r.Method(http.MethodGet, "/movie/lists/{list}", Adapt(h.getMovieList))
	r.Method(http.MethodGet, "/tv/lists/{list}", Adapt(h.getTVList))

	r.Route("/tv/{id:[0-9]+}/season/{season:[0-9]+}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", Adapt(h.getSeason))
		r.Method(http.MethodGet, "/episode/{episode:[0-9]+}", Adapt(h.getEpisode))
	})

	r.Route("/person", func(r chi.Router) {
		r.Method(http.MethodGet, "/popular", Adapt(h.getPopularPeople))
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", Adapt(h.getPerson))
			r.Method(http.MethodGet, "/images", Adapt(h.getPersonImages))
			r.Method(http.MethodGet, "/combined_credits", Adapt(h.getPersonCredits("combined")))
			r.Method(http.MethodGet, "/movie_credits", Adapt(h.getPersonCredits("movie")))
			r.Method(http.MethodGet, "/tv_credits", Adapt(h.getPersonCredits("tv")))
			r.Method(http.MethodGet, "/external_ids", Adapt(h.getPersonExternalIDs))
		})
	})

	r.Route("/search", func(r chi.Router) {
		r.Method(http.MethodGet, "/advanced", Adapt(h.getAdvancedSearch))
		r.Method(http.MethodGet, "/suggestions", Adapt(h.getSuggestions))
		r.Method(http.MethodGet, "/filtered", Adapt(h.getFilteredSearch))
		r.Method(http.MethodGet, "/{kind}", Adapt(h.getSearch))
	})

	r.Route("/discover/{media}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", Adapt(h.getDiscover))
		r.Method(http.MethodGet, "/genre/{genreID:[0-9]+}", Adapt(h.getDiscoverByGenre))
		r.Method(http.MethodGet, "/preset/{preset}", Adapt(h.getDiscoverPreset))
	})

	r.Method(http.MethodGet, "/trending/{media}/{window}", Adapt(h.getTrending))

	r.Route("/{media}/{id:[0-9]+}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", Adapt(h.getDetail))
		r.Method(http.MethodGet, "/overview", Adapt(h.getOverview))
		r.Method(http.MethodGet, "/credits", Adapt(h.getCredits))
		r.Method(http.MethodGet, "/videos", Adapt(h.getVideos))
		r.Method(http.MethodGet, "/images", Adapt(h.getImages))
		r.Method(http.MethodGet, "/similar", Adapt(h.getSimilar))
		r.Method(http.MethodGet, "/recommendations", Adapt(h.getRecommendations))
		r.Method(http.MethodGet, "/seasons", Adapt(h.getSeasons))
		r.Method(http.MethodPost, "/rating", Adapt(h.postRating))
		r.Method(http.MethodDelete, "/rating", Adapt(h.deleteRating))
	})
}
