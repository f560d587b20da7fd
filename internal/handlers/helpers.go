package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", slog.Any("err", err))
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected trailing json")
		}
		return err
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bad id")
	}
	return id, nil
}

// intParam parses a non-negative path parameter such as a season number.
func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < 0 {
		return 0, errors.New("bad " + name)
	}
	return n, nil
}

func mediaParam(r *http.Request) (tmdb.MediaType, error) {
	media, err := tmdb.ParseMediaType(chi.URLParam(r, "media"))
	if err != nil || !media.IsTitle() {
		return "", badRequest("media type must be movie or tv")
	}
	return media, nil
}

// pageQuery reads ?page=, defaulting to 1.
func pageQuery(r *http.Request) int {
	if val := strings.TrimSpace(r.URL.Query().Get("page")); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 1
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func badRequest(msg string) error { return &Error{Status: http.StatusBadRequest, Message: msg} }
func notFound(msg string) error   { return &Error{Status: http.StatusNotFound, Message: msg} }
func internal(err error) error    { return err }

// upstream maps a TMDB call failure to a response: 404 stays 404, rejected input
// becomes 400 and everything else is a bad gateway.
func upstream(err error) error {
	switch {
	case tmdb.IsNotFound(err):
		return notFound("not found")
	case errors.Is(err, tmdb.ErrInvalidMediaType),
		errors.Is(err, tmdb.ErrInvalidRating),
		errors.Is(err, tmdb.ErrRatingUnsupported):
		return badRequest(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	slog.Warn("tmdb request failed", logger.Error(err))
	return &Error{Status: http.StatusBadGateway, Message: err.Error()}
}

func ptr[T any](v T) *T { return &v }
