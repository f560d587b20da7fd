package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/movie-discovery/internal/catalog"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

// discoverQuery forwards whitelisted discover filters. Unknown keys are dropped
// and an unknown sort_by is rejected.
func discoverQuery(r *http.Request, media tmdb.MediaType) (tmdb.Params, error) {
	params := tmdb.Params{}
	for key, values := range r.URL.Query() {
		if len(values) == 0 || !catalog.AllowedFilter(string(media), key) {
			continue
		}
		val := strings.TrimSpace(values[0])
		if val == "" {
			continue
		}
		params[key] = val
	}
	if sortBy, ok := params["sort_by"].(string); ok && !catalog.ValidSort(string(media), sortBy) {
		return nil, badRequest("unsupported sort_by " + sortBy)
	}
	params["page"] = pageQuery(r)
	return params, nil
}

func (h *Handler) getDiscover(w http.ResponseWriter, r *http.Request) error {
	media, err := mediaParam(r)
	if err != nil {
		return err
	}
	params, err := discoverQuery(r, media)
	if err != nil {
		return err
	}
	page, err := h.tmdb.Discover(r.Context(), media, params)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) getDiscoverByGenre(w http.ResponseWriter, r *http.Request) error {
	media, err := mediaParam(r)
	if err != nil {
		return err
	}
	genreID, err := intParam(r, "genreID")
	if err != nil || genreID == 0 {
		return badRequest("bad genre id")
	}
	extra, err := discoverQuery(r, media)
	if err != nil {
		return err
	}
	delete(extra, "with_genres")

	page, err := h.tmdb.DiscoverByGenre(r.Context(), media, genreID, pageQuery(r), extra)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) getDiscoverPreset(w http.ResponseWriter, r *http.Request) error {
	media, err := mediaParam(r)
	if err != nil {
		return err
	}
	preset := tmdb.DiscoverPreset(chi.URLParam(r, "preset"))
	switch preset {
	case tmdb.PresetHighRated, tmdb.PresetLatest, tmdb.PresetUpcoming:
	default:
		return notFound("unknown preset")
	}

	page, err := h.tmdb.DiscoverPreset(r.Context(), media, preset, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

// getTrending handles /trending/{media}/{window}; media may also be all or person.
func (h *Handler) getTrending(w http.ResponseWriter, r *http.Request) error {
	media, err := tmdb.ParseMediaType(chi.URLParam(r, "media"))
	if err != nil {
		return badRequest("media type must be all, movie, tv or person")
	}
	window := tmdb.TimeWindow(chi.URLParam(r, "window"))
	if !window.Valid() {
		return badRequest("time window must be day or week")
	}

	page, err := h.tmdb.Trending(r.Context(), media, window, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}
