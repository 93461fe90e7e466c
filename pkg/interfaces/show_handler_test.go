package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yair/showscout/pkg/domain"
)

type finderStub struct {
	token     string
	searchReq ShowSearchRequest
	listKind  string
	listRange string
	result    *domain.SearchResultSet
	artists   []domain.ArtistRef
	err       error
}

func (f *finderStub) FindShows(ctx context.Context, token string, req ShowSearchRequest) (*domain.SearchResultSet, error) {
	f.token = token
	f.searchReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *finderStub) ListArtists(ctx context.Context, token, kind, timeRange string, limit int) ([]domain.ArtistRef, error) {
	f.token = token
	f.listKind = kind
	f.listRange = timeRange
	if f.err != nil {
		return nil, f.err
	}
	return f.artists, nil
}

func newHandlerRouter(finder ShowFinder) *mux.Router {
	router := mux.NewRouter()
	NewShowHandler(finder, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func withSession(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return r
}

func TestSearchShowsHandler(t *testing.T) {
	t.Run("passes payload and cookie token through", func(t *testing.T) {
		finder := &finderStub{result: &domain.SearchResultSet{
			Events:  []domain.EventRecord{{ID: "ev1", Artist: "Wilco"}},
			Similar: []domain.ArtistRef{},
		}}
		router := newHandlerRouter(finder)

		body := `{"affinity":"top_artists","time_range":"short_term","location":"Chicago","radius":30,"include_similar":true}`
		req := withSession(httptest.NewRequest("POST", "/api/shows/search", strings.NewReader(body)), "tok123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok123", finder.token)
		assert.Equal(t, "top_artists", finder.searchReq.Affinity)
		assert.Equal(t, "Chicago", finder.searchReq.LocationText)
		assert.Equal(t, 30, finder.searchReq.RadiusMiles)
		assert.True(t, finder.searchReq.IncludeSimilar)

		var result domain.SearchResultSet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Events, 1)
		assert.Equal(t, "Wilco", result.Events[0].Artist)
	})

	t.Run("invalid body rejected", func(t *testing.T) {
		router := newHandlerRouter(&finderStub{})

		req := httptest.NewRequest("POST", "/api/shows/search", strings.NewReader("{broken"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error taxonomy maps onto statuses", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want int
		}{
			{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
			{"invalid request", domain.ErrInvalidRequest, http.StatusBadRequest},
			{"missing api key", domain.ErrMissingAPIKey, http.StatusInternalServerError},
			{"upstream failure", &domain.UpstreamError{Provider: "spotify", Status: 503}, http.StatusBadGateway},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				router := newHandlerRouter(&finderStub{err: tc.err})

				req := withSession(httptest.NewRequest("POST", "/api/shows/search", strings.NewReader(`{}`)), "tok")
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				assert.Equal(t, tc.want, rec.Code)

				var payload map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
				assert.NotEmpty(t, payload["error"])
			})
		}
	})
}

func TestFollowedArtistsHandler(t *testing.T) {
	finder := &finderStub{artists: []domain.ArtistRef{{ID: "a1", Name: "One"}}}
	router := newHandlerRouter(finder)

	req := withSession(httptest.NewRequest("GET", "/api/artists/followed", nil), "tok123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok123", finder.token)
	assert.Equal(t, "followed", finder.listKind)

	var payload map[string][]domain.ArtistRef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload["items"], 1)
}

func TestTopArtistsHandler(t *testing.T) {
	t.Run("type=tracks selects the top-tracks kind", func(t *testing.T) {
		finder := &finderStub{}
		router := newHandlerRouter(finder)

		req := withSession(httptest.NewRequest("GET", "/api/artists/top?type=tracks&time_range=long_term", nil), "tok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "top_tracks", finder.listKind)
		assert.Equal(t, "long_term", finder.listRange)
	})

	t.Run("default type is artists", func(t *testing.T) {
		finder := &finderStub{}
		router := newHandlerRouter(finder)

		req := withSession(httptest.NewRequest("GET", "/api/artists/top", nil), "tok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "top_artists", finder.listKind)
	})

	t.Run("unknown type rejected without a service call", func(t *testing.T) {
		finder := &finderStub{}
		router := newHandlerRouter(finder)

		req := withSession(httptest.NewRequest("GET", "/api/artists/top?type=albums", nil), "tok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, finder.listKind)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		router := newHandlerRouter(&finderStub{})

		req := withSession(httptest.NewRequest("GET", "/api/artists/top?limit=-3", nil), "tok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
