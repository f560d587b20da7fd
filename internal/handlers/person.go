package handlers

import (
	"context"
	"net/http"

	"github.com/handsomefox/movie-discovery/internal/format"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

func (h *Handler) getPopularPeople(w http.ResponseWriter, r *http.Request) error {
	page, err := h.tmdb.PopularPeople(r.Context(), pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

type personResponse struct {
	*tmdb.PersonDetail
	GenderText string              `json:"gender_text"`
	ProfileURL string              `json:"profile_url,omitempty"`
	Profiles   []tmdb.ImageVariant `json:"profiles,omitempty"`
	IMDbURL    string              `json:"imdb_url,omitempty"`
}

func (h *Handler) getPerson(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	person, err := h.tmdb.PersonDetail(r.Context(), id)
	if err != nil {
		return upstream(err)
	}

	base := h.tmdb.ImageBaseURL()
	resp := &personResponse{
		PersonDetail: person,
		GenderText:   format.Gender(person.Gender),
		ProfileURL:   tmdb.ImageURL(base, person.ProfilePath, tmdb.KindProfile, tmdb.SizeLarge),
		Profiles:     tmdb.ResponsiveImages(base, person.ProfilePath, tmdb.KindProfile),
	}
	if person.IMDbID != "" {
		resp.IMDbURL = "https://www.imdb.com/name/" + person.IMDbID + "/"
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *Handler) getPersonImages(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	images, err := h.tmdb.PersonImages(r.Context(), id)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, images)
	return nil
}

func (h *Handler) getPersonCredits(kind string) HandlerWithErr {
	var fetch func(ctx context.Context, id int64) (*tmdb.PersonCredits, error)
	switch kind {
	case "movie":
		fetch = h.tmdb.PersonMovieCredits
	case "tv":
		fetch = h.tmdb.PersonTVCredits
	default:
		fetch = h.tmdb.PersonCombinedCredits
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := idParam(r, "id")
		if err != nil {
			return badRequest(err.Error())
		}
		credits, err := fetch(r.Context(), id)
		if err != nil {
			return upstream(err)
		}
		writeJSON(w, http.StatusOK, credits)
		return nil
	}
}

func (h *Handler) getPersonExternalIDs(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	ids, err := h.tmdb.PersonExternalIDs(r.Context(), id)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, ids)
	return nil
}
