package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/yair/showscout/pkg/domain"
)

// ShowFinder is the service surface the HTTP layer consumes.
type ShowFinder interface {
	FindShows(ctx context.Context, token string, req ShowSearchRequest) (*domain.SearchResultSet, error)
	ListArtists(ctx context.Context, token, kind, timeRange string, limit int) ([]domain.ArtistRef, error)
}

type ShowHandler struct {
	service ShowFinder
	logger  zerolog.Logger
}

func NewShowHandler(service ShowFinder, logger zerolog.Logger) *ShowHandler {
	return &ShowHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ShowHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/shows/search", h.SearchShows).Methods("POST")
	router.HandleFunc("/api/artists/followed", h.FollowedArtists).Methods("GET")
	router.HandleFunc("/api/artists/top", h.TopArtists).Methods("GET")
}

type showSearchPayload struct {
	Affinity       string   `json:"affinity"`
	TimeRange      string   `json:"time_range"`
	Limit          int      `json:"limit"`
	Location       string   `json:"location"`
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
	Radius         int      `json:"radius"`
	IncludeSimilar bool     `json:"include_similar"`
}

func (h *ShowHandler) SearchShows(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var payload showSearchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.FindShows(ctx, bearerFromRequest(r), ShowSearchRequest{
		Affinity:       payload.Affinity,
		TimeRange:      payload.TimeRange,
		Limit:          payload.Limit,
		Lat:            payload.Lat,
		Lon:            payload.Lon,
		RadiusMiles:    payload.Radius,
		LocationText:   payload.Location,
		IncludeSimilar: payload.IncludeSimilar,
	})
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, result)
}

func (h *ShowHandler) FollowedArtists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	artists, err := h.service.ListArtists(ctx, bearerFromRequest(r), string(domain.AffinityFollowed), "", 0)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string][]domain.ArtistRef{"items": artists})
}

func (h *ShowHandler) TopArtists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// the listing type mirrors the provider's own naming
	var kind domain.AffinityKind
	switch r.URL.Query().Get("type") {
	case "", "artists":
		kind = domain.AffinityTopArtists
	case "tracks":
		kind = domain.AffinityTopTracks
	default:
		h.respondWithError(w, http.StatusBadRequest, `type must be "artists" or "tracks"`)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	artists, err := h.service.ListArtists(ctx, bearerFromRequest(r), string(kind), r.URL.Query().Get("time_range"), limit)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string][]domain.ArtistRef{"items": artists})
}

// respondWithServiceError maps the error taxonomy onto HTTP statuses. The
// caller sees exactly one classified error, never upstream payloads.
func (h *ShowHandler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		h.respondWithError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, domain.ErrInvalidRequest):
		h.respondWithError(w, http.StatusBadRequest, "invalid affinity kind or time range")
	case errors.Is(err, domain.ErrMissingAPIKey):
		h.respondWithError(w, http.StatusInternalServerError, "server missing provider configuration")
	case domain.IsUpstream(err):
		h.logger.Error().Err(err).Msg("required upstream call failed")
		h.respondWithError(w, http.StatusBadGateway, "upstream provider unavailable")
	default:
		h.logger.Error().Err(err).Msg("show search failed")
		h.respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *ShowHandler) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *ShowHandler) respondWithError(w http.ResponseWriter, status int, message string) {
	h.respondWithJSON(w, status, map[string]string{"error": message})
}
