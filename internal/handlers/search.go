package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

func parseSearchOptions(r *http.Request) tmdb.SearchOptions {
	query := r.URL.Query()
	opts := tmdb.SearchOptions{
		Region: strings.ToUpper(strings.TrimSpace(query.Get("region"))),
	}
	if val := strings.TrimSpace(query.Get("include_adult")); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			opts.IncludeAdult = &parsed
		}
	}
	opts.Year = positiveInt(query.Get("year"))
	opts.PrimaryReleaseYear = positiveInt(query.Get("primary_release_year"))
	opts.FirstAirDateYear = positiveInt(query.Get("first_air_date_year"))
	return opts
}

func positiveInt(raw string) int {
	if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && parsed > 0 {
		return parsed
	}
	return 0
}

// getSearch handles /search/{kind} where kind is multi, movie, tv or person.
func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) error {
	kind := chi.URLParam(r, "kind")
	media := tmdb.MediaAll
	if kind != "multi" {
		parsed, err := tmdb.ParseMediaType(kind)
		if err != nil || parsed == tmdb.MediaAll {
			return notFound("unknown search type")
		}
		media = parsed
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page, err := h.tmdb.SearchByType(r.Context(), media, query, pageQuery(r), parseSearchOptions(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

// getAdvancedSearch accepts ?types=movie,tv,person. Omitting types searches all of them.
func (h *Handler) getAdvancedSearch(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		return badRequest("q is required")
	}

	var types []tmdb.MediaType
	for _, raw := range strings.Split(r.URL.Query().Get("types"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		media, err := tmdb.ParseMediaType(raw)
		if err != nil || media == tmdb.MediaAll {
			return badRequest("unknown type " + raw)
		}
		types = append(types, media)
	}

	res, err := h.tmdb.AdvancedSearch(r.Context(), query, pageQuery(r), types, parseSearchOptions(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

type suggestion struct {
	ID        int64          `json:"id"`
	MediaType tmdb.MediaType `json:"media_type"`
	Title     string         `json:"title"`
	Year      string         `json:"year,omitempty"`
	ImageURL  string         `json:"image_url,omitempty"`
}

const suggestionLimit = 8

func (h *Handler) getSuggestions(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	out := make([]suggestion, 0, suggestionLimit)
	if query == "" {
		writeJSON(w, http.StatusOK, out)
		return nil
	}

	page, err := h.tmdb.Suggestions(r.Context(), query)
	if err != nil {
		return upstream(err)
	}

	base := h.tmdb.ImageBaseURL()
	for _, item := range page.Results {
		if len(out) >= suggestionLimit {
			break
		}
		s := suggestion{ID: item.ID, MediaType: item.MediaType, Title: item.DisplayTitle()}
		if item.MediaType == tmdb.MediaPerson {
			s.ImageURL = tmdb.ImageURL(base, item.ProfilePath, tmdb.KindProfile, tmdb.SizeSmall)
		} else {
			s.ImageURL = tmdb.ImageURL(base, item.PosterPath, tmdb.KindPoster, tmdb.SizeSmall)
			if year, ok := parseYear(item.Date()); ok {
				s.Year = strconv.Itoa(year)
			}
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
