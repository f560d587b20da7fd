package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

func (h *Handler) getMovieList(w http.ResponseWriter, r *http.Request) error {
	list := tmdb.MovieList(chi.URLParam(r, "list"))
	if !list.Valid() {
		return notFound("unknown movie list")
	}
	page, err := h.tmdb.MovieList(r.Context(), list, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) getTVList(w http.ResponseWriter, r *http.Request) error {
	list := tmdb.TVList(chi.URLParam(r, "list"))
	if !list.Valid() {
		return notFound("unknown tv list")
	}
	page, err := h.tmdb.TVList(r.Context(), list, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func titleParams(r *http.Request) (tmdb.MediaType, int64, error) {
	media, err := mediaParam(r)
	if err != nil {
		return "", 0, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return "", 0, badRequest(err.Error())
	}
	return media, id, nil
}

// getDetail passes the upstream detail payload through untouched.
func (h *Handler) getDetail(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if err := h.tmdb.Detail(r.Context(), media, id, &raw); err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, raw)
	return nil
}

func (h *Handler) getCredits(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	credits, err := h.tmdb.Credits(r.Context(), media, id)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, credits)
	return nil
}

type videoView struct {
	tmdb.Video
	TypeName     string `json:"type_name"`
	Priority     int    `json:"priority"`
	WatchURL     string `json:"watch_url"`
	EmbedURL     string `json:"embed_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func toVideoView(v tmdb.Video) videoView {
	return videoView{
		Video:        v,
		TypeName:     v.TypeName(),
		Priority:     tmdb.VideoPriority(v),
		WatchURL:     v.WatchURL(),
		EmbedURL:     v.EmbedURL(),
		ThumbnailURL: v.ThumbnailURL(),
	}
}

type videosResponse struct {
	ID      int64            `json:"id"`
	Results []tmdb.Video     `json:"results"`
	Groups  tmdb.VideoGroups `json:"groups"`
	Trailer *videoView       `json:"trailer,omitempty"`
}

func (h *Handler) getVideos(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	videos, err := h.tmdb.Videos(r.Context(), media, id)
	if err != nil {
		return upstream(err)
	}

	resp := &videosResponse{
		ID:      videos.ID,
		Results: videos.Results,
		Groups:  tmdb.GroupVideos(videos.Results),
	}
	if trailer, ok := tmdb.MainTrailer(videos.Results); ok {
		resp.Trailer = ptr(toVideoView(trailer))
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *Handler) getImages(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	images, err := h.tmdb.Images(r.Context(), media, id)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, images)
	return nil
}

func (h *Handler) getSimilar(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	page, err := h.tmdb.Similar(r.Context(), media, id, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	page, err := h.tmdb.Recommendations(r.Context(), media, id, pageQuery(r))
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) getSeasons(w http.ResponseWriter, r *http.Request) error {
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}
	if media != tmdb.MediaTV {
		return notFound("only tv shows have seasons")
	}
	seasons, err := h.tmdb.TVSeasons(r.Context(), id)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, seasons)
	return nil
}

func (h *Handler) getSeason(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	season, err := intParam(r, "season")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.tmdb.SeasonDetail(r.Context(), id, season)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, detail)
	return nil
}

func (h *Handler) getEpisode(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	season, err := intParam(r, "season")
	if err != nil {
		return badRequest(err.Error())
	}
	episode, err := intParam(r, "episode")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.tmdb.EpisodeDetail(r.Context(), id, season, episode)
	if err != nil {
		return upstream(err)
	}
	writeJSON(w, http.StatusOK, detail)
	return nil
}

type ratingRequest struct {
	Value float64 `json:"value"`
}

type ratingResponse struct {
	tmdb.RatingResponse
	Value float64 `json:"value"`
}

// postRating submits the rating upstream and remembers it for the visitor.
func (h *Handler) postRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("invalid json")
	}

	res, err := h.tmdb.Rate(ctx, media, id, req.Value)
	if err != nil {
		return upstream(err)
	}

	rating := &store.Rating{
		ClientID:  visitorFrom(ctx).ClientID,
		TMDBID:    id,
		MediaType: string(media),
		Value:     req.Value,
	}
	if err := h.store.UpsertRating(ctx, rating); err != nil {
		return internal(err)
	}

	writeJSON(w, http.StatusOK, &ratingResponse{RatingResponse: *res, Value: req.Value})
	return nil
}

func (h *Handler) deleteRating(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	media, id, err := titleParams(r)
	if err != nil {
		return err
	}

	res, err := h.tmdb.DeleteRating(ctx, media, id)
	if err != nil {
		return upstream(err)
	}

	ref := store.TMDBRef{ID: id, MediaType: string(media)}
	if err := h.store.DeleteRating(ctx, visitorFrom(ctx).ClientID, ref); err != nil && !isNoRows(err) {
		return internal(err)
	}

	writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *Handler) getRatings(w http.ResponseWriter, r *http.Request) error {
	ratings, err := h.store.ListRatings(r.Context(), visitorFrom(r.Context()).ClientID)
	if err != nil {
		return internal(err)
	}
	if ratings == nil {
		ratings = []store.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
	return nil
}
