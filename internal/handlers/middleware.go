package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/handsomefox/movie-discovery/internal/device"
	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/state"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
)

// clientHints are requested so later requests carry viewport and color scheme.
const clientHints = "Sec-CH-Viewport-Width, Viewport-Width, Sec-CH-Prefers-Color-Scheme"

type visitor struct {
	ClientID string
	Prefs    state.Preferences
	Locale   string
	Screen   device.Screen
	System   state.Scheme
}

type visitorKey struct{}

func visitorFrom(ctx context.Context) *visitor {
	if v, ok := ctx.Value(visitorKey{}).(*visitor); ok {
		return v
	}
	return &visitor{Locale: state.DefaultLocale, Prefs: state.DefaultPreferences("")}
}

// MiddlewareVisitor identifies the visitor, loads their preferences and puts the
// resolved locale into the request context for TMDB calls.
func (h *Handler) MiddlewareVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", clientHints)
		w.Header().Add("Vary", "Accept-Language, Cookie")

		id := h.clientID(w, r)
		prefs, err := state.LoadPreferences(r.Context(), h.store, id)
		if err != nil {
			slog.Warn("failed to load preferences", slog.String("client_id", id), logger.Error(err))
			prefs = state.DefaultPreferences(id)
		}

		v := &visitor{
			ClientID: id,
			Prefs:    prefs,
			Locale:   state.ResolveLocale(r, prefs.Locale, h.tmdb.DefaultLocale()),
			Screen:   device.FromRequest(r),
			System:   state.SystemScheme(r),
		}

		ctx := context.WithValue(r.Context(), visitorKey{}, v)
		ctx = tmdb.WithLocale(ctx, v.Locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
