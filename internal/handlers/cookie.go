package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handsomefox/movie-discovery/internal/state"
)

const clientCookieName = "client_id"
const cookieDays = 365

// clientID returns the visitor id from its cookie, issuing a new one when the
// cookie is missing or malformed.
func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil {
		if id, err := uuid.Parse(strings.TrimSpace(c.Value)); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	h.setCookie(w, clientCookieName, id, true)
	return id
}

func (h *Handler) setLocaleCookie(w http.ResponseWriter, locale string) {
	// The front-end i18n module reads this cookie, so it stays visible to scripts.
	h.setCookie(w, state.LocaleCookie, locale, false)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, httpOnly bool) {
	expiration := time.Now().Add(time.Hour * 24 * cookieDays)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiration,
		MaxAge:   int((time.Hour * 24 * cookieDays).Seconds()),
		HttpOnly: httpOnly,
		SameSite: h.sameSite(),
		Secure:   h.secure(),
	})
}

func (h *Handler) sameSite() http.SameSite {
	if h.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (h *Handler) secure() bool {
	return h.production
}
