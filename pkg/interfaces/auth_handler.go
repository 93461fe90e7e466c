package interfaces

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/yair/showscout/pkg/config"
)

var spotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// spotifyScopes covers the followed-artists and top-listings reads; the
// related-artists endpoint needs no extra scope.
var spotifyScopes = []string{"user-follow-read", "user-top-read"}

// AuthHandler owns the OAuth redirect plumbing: it sends the listener to
// the provider's consent page, exchanges the returned code, and parks the
// resulting bearer token in the session cookie. The engine itself never
// refreshes or inspects the token.
type AuthHandler struct {
	oauth  *oauth2.Config
	logger zerolog.Logger
}

func NewAuthHandler(cfg config.SpotifyConfig, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       spotifyScopes,
			Endpoint:     spotifyEndpoint,
		},
		logger: logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("GET")
	router.HandleFunc("/auth/callback", h.Callback).Methods("GET")
	router.HandleFunc("/api/session", h.Session).Methods("GET")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.oauth.ClientID == "" || h.oauth.RedirectURL == "" {
		h.respondWithError(w, http.StatusInternalServerError, "server missing spotify client configuration")
		return
	}

	state := uuid.NewString()
	setStateCookie(w, r, state)

	authURL := h.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn().Str("error", errParam).Msg("oauth consent denied")
		h.respondWithError(w, http.StatusBadRequest, "authorization denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.respondWithError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.respondWithError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error().Err(err).Msg("token exchange failed")
		h.respondWithError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	clearStateCookie(w)
	setSessionCookie(w, r, token.AccessToken, time.Until(token.Expiry))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{
		"spotifyConnected": bearerFromRequest(r) != "",
	})
}

func (h *AuthHandler) respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
