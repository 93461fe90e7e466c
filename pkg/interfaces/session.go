package interfaces

import (
	"net/http"
	"time"
)

const (
	sessionCookieName = "sc_access"
	stateCookieName   = "sc_state"

	// sessionMaxAge is the fallback lifetime when the provider does not
	// say when the token expires.
	sessionMaxAge = 2 * time.Hour

	stateMaxAge = 5 * time.Minute
)

// bearerFromRequest returns the opaque bearer credential for this
// request, or "" when the caller is unauthenticated. The token lives in
// an HttpOnly cookie set by the OAuth callback; nothing else in the
// system ever stores it.
func bearerFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = sessionMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func setStateCookie(w http.ResponseWriter, r *http.Request, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/",
		MaxAge: -1,
	})
}
