package interfaces

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yair/showscout/pkg/domain"
	"github.com/yair/showscout/pkg/integrations"
)

type affinityStub struct {
	calls   int
	artists []domain.ArtistRef
	err     error
}

func (s *affinityStub) FollowedArtists(ctx context.Context, token string) ([]domain.ArtistRef, error) {
	s.calls++
	return s.artists, s.err
}

func (s *affinityStub) TopArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error) {
	s.calls++
	return s.artists, s.err
}

func (s *affinityStub) TopTrackArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error) {
	s.calls++
	return s.artists, s.err
}

// searcherStub returns canned events keyed by page size, which separates
// the base fan-out (15) from the similarity fan-out (10).
type searcherStub struct {
	calls   [][]string
	byPages map[int][]domain.EventRecord
}

func (s *searcherStub) Search(ctx context.Context, names []string, loc domain.QueryLocation, pageSize int) []domain.EventRecord {
	s.calls = append(s.calls, names)
	return s.byPages[pageSize]
}

type expanderStub struct {
	calls   int
	similar []domain.ArtistRef
}

func (s *expanderStub) Expand(ctx context.Context, token string, seeds []domain.ArtistRef) []domain.ArtistRef {
	s.calls++
	return s.similar
}

func newServiceUnderTest(affinity *affinityStub, searcher *searcherStub, expander *expanderStub) *ShowService {
	return NewShowService(affinity, searcher, expander)
}

func TestFindShows(t *testing.T) {
	seedArtists := []domain.ArtistRef{{ID: "a1", Name: "One"}, {ID: "a2", Name: "Two"}}

	t.Run("no credential short-circuits before any upstream call", func(t *testing.T) {
		affinity := &affinityStub{artists: seedArtists}
		searcher := &searcherStub{}
		service := newServiceUnderTest(affinity, searcher, &expanderStub{})

		_, err := service.FindShows(context.Background(), "", ShowSearchRequest{})

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.Equal(t, 0, affinity.calls)
		assert.Empty(t, searcher.calls)
	})

	t.Run("unknown affinity kind rejected before I/O", func(t *testing.T) {
		affinity := &affinityStub{artists: seedArtists}
		service := newServiceUnderTest(affinity, &searcherStub{}, &expanderStub{})

		_, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{Affinity: "playlists"})

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, 0, affinity.calls)
	})

	t.Run("unknown time range rejected before I/O", func(t *testing.T) {
		affinity := &affinityStub{artists: seedArtists}
		service := newServiceUnderTest(affinity, &searcherStub{}, &expanderStub{})

		_, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{TimeRange: "last_decade"})

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, 0, affinity.calls)
	})

	t.Run("base search without similarity", func(t *testing.T) {
		base := []domain.EventRecord{{ID: "ev1"}, {ID: "ev2"}}
		searcher := &searcherStub{byPages: map[int][]domain.EventRecord{integrations.BasePageSize: base}}
		expander := &expanderStub{similar: []domain.ArtistRef{{ID: "r1"}}}
		service := newServiceUnderTest(&affinityStub{artists: seedArtists}, searcher, expander)

		result, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{})

		require.NoError(t, err)
		assert.Equal(t, base, result.Events)
		assert.NotNil(t, result.Similar)
		assert.Empty(t, result.Similar)
		assert.Equal(t, 0, expander.calls, "expansion must not run unless requested")
		require.Len(t, searcher.calls, 1)
		assert.Equal(t, []string{"One", "Two"}, searcher.calls[0])
	})

	t.Run("base event wins on id collision with similar event", func(t *testing.T) {
		searcher := &searcherStub{byPages: map[int][]domain.EventRecord{
			integrations.BasePageSize:    {{ID: "shared", Artist: "Base Version"}, {ID: "ev2"}},
			integrations.SimilarPageSize: {{ID: "shared", Artist: "Similar Version"}, {ID: "ev3"}},
		}}
		similar := []domain.ArtistRef{{ID: "r1", Name: "Rec One"}}
		service := newServiceUnderTest(&affinityStub{artists: seedArtists}, searcher, &expanderStub{similar: similar})

		result, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{IncludeSimilar: true})

		require.NoError(t, err)
		require.Len(t, result.Events, 3)
		assert.Equal(t, "Base Version", result.Events[0].Artist)
		assert.Equal(t, "ev2", result.Events[1].ID)
		assert.Equal(t, "ev3", result.Events[2].ID)
		assert.Equal(t, similar, result.Similar)
		require.Len(t, searcher.calls, 2)
		assert.Equal(t, []string{"Rec One"}, searcher.calls[1])
	})

	t.Run("empty expansion skips the second fan-out", func(t *testing.T) {
		base := []domain.EventRecord{{ID: "ev1"}}
		searcher := &searcherStub{byPages: map[int][]domain.EventRecord{integrations.BasePageSize: base}}
		service := newServiceUnderTest(&affinityStub{artists: seedArtists}, searcher, &expanderStub{})

		result, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{IncludeSimilar: true})

		require.NoError(t, err)
		assert.Equal(t, base, result.Events)
		assert.Empty(t, result.Similar)
		assert.Len(t, searcher.calls, 1)
	})

	t.Run("failed affinity listing aborts the whole search", func(t *testing.T) {
		upstream := &domain.UpstreamError{Provider: "spotify", Status: 503}
		searcher := &searcherStub{}
		service := newServiceUnderTest(&affinityStub{err: upstream}, searcher, &expanderStub{})

		_, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{})

		assert.ErrorIs(t, err, upstream)
		assert.Empty(t, searcher.calls)
	})

	t.Run("missing ticketing configuration is a server fault", func(t *testing.T) {
		service := NewShowService(&affinityStub{artists: seedArtists}, nil, &expanderStub{})

		_, err := service.FindShows(context.Background(), "tok", ShowSearchRequest{})

		assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	})
}

func TestListArtists(t *testing.T) {
	t.Run("unauthenticated before any call", func(t *testing.T) {
		affinity := &affinityStub{}
		service := newServiceUnderTest(affinity, &searcherStub{}, &expanderStub{})

		_, err := service.ListArtists(context.Background(), "", "followed", "", 0)

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.Equal(t, 0, affinity.calls)
	})

	t.Run("dispatches by kind", func(t *testing.T) {
		affinity := &affinityStub{artists: []domain.ArtistRef{{ID: "a1"}}}
		service := newServiceUnderTest(affinity, &searcherStub{}, &expanderStub{})

		for _, kind := range []string{"followed", "top_artists", "top_tracks"} {
			artists, err := service.ListArtists(context.Background(), "tok", kind, "short_term", 10)
			require.NoError(t, err, kind)
			assert.Len(t, artists, 1)
		}
		assert.Equal(t, 3, affinity.calls)
	})
}
