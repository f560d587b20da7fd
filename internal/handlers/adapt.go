package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/handsomefox/movie-discovery/internal/logger"
)

// HandlerWithErr reports failures by returning them; Adapt renders the response.
type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

// Error carries the status and message a client should see.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message + " code=" + strconv.Itoa(e.Status)
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &errorResponse{Error: msg, Status: status})
}

func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var statusErr *Error
		switch {
		case errors.As(err, &statusErr):
			writeError(w, statusErr.Status, statusErr.Message)
		case errors.Is(err, context.Canceled):
			// The client went away; nobody reads the response.
			slog.Debug("request canceled", slog.String("path", r.URL.Path))
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "request timed out")
		default:
			slog.Error("handler failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	})
}
