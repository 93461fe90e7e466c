package interfaces

import (
	"context"

	"github.com/yair/showscout/pkg/domain"
	"github.com/yair/showscout/pkg/integrations"
)

// AffinitySource lists artists the listener cares about, one method per
// affinity kind. The bearer token is threaded through every call; the
// source never holds credential state.
type AffinitySource interface {
	FollowedArtists(ctx context.Context, token string) ([]domain.ArtistRef, error)
	TopArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error)
	TopTrackArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error)
}

// EventSearcher fans artist names out to the ticketing provider.
type EventSearcher interface {
	Search(ctx context.Context, names []string, loc domain.QueryLocation, pageSize int) []domain.EventRecord
}

// ArtistExpander widens a seed set via the related-artist graph.
type ArtistExpander interface {
	Expand(ctx context.Context, token string, seeds []domain.ArtistRef) []domain.ArtistRef
}

type ShowService struct {
	affinity AffinitySource
	events   EventSearcher
	expander ArtistExpander
}

// NewShowService wires the aggregation engine. events may be nil when the
// ticketing provider is not configured; searches then fail per request
// with ErrMissingAPIKey instead of the server refusing to boot.
func NewShowService(affinity AffinitySource, events EventSearcher, expander ArtistExpander) *ShowService {
	return &ShowService{
		affinity: affinity,
		events:   events,
		expander: expander,
	}
}

type ShowSearchRequest struct {
	Affinity       string
	TimeRange      string
	Limit          int
	Lat, Lon       *float64
	RadiusMiles    int
	LocationText   string
	IncludeSimilar bool
}

// ListArtists resolves the listener's artist set for one affinity kind.
// Credential and enum validation both happen before any upstream call.
func (s *ShowService) ListArtists(ctx context.Context, token, kindRaw, rangeRaw string, limit int) ([]domain.ArtistRef, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	kind, err := domain.ParseAffinityKind(kindRaw)
	if err != nil {
		return nil, err
	}
	timeRange, err := domain.ParseTimeRange(rangeRaw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.AffinityFollowed:
		return s.affinity.FollowedArtists(ctx, token)
	case domain.AffinityTopArtists:
		return s.affinity.TopArtists(ctx, token, timeRange, limit)
	default:
		return s.affinity.TopTrackArtists(ctx, token, timeRange, limit)
	}
}

// FindShows runs one full aggregation: affinity listing, base fan-out,
// optional similarity expansion with a second fan-out, and the final
// merge. The caller gets either a complete result set or one classified
// error, never both.
func (s *ShowService) FindShows(ctx context.Context, token string, req ShowSearchRequest) (*domain.SearchResultSet, error) {
	if s.events == nil {
		return nil, domain.ErrMissingAPIKey
	}

	artists, err := s.ListArtists(ctx, token, req.Affinity, req.TimeRange, req.Limit)
	if err != nil {
		return nil, err
	}

	loc := domain.ResolveLocation(req.Lat, req.Lon, req.RadiusMiles, req.LocationText)

	baseEvents := s.events.Search(ctx, artistNames(artists), loc, integrations.BasePageSize)

	result := &domain.SearchResultSet{
		Events:  baseEvents,
		Similar: []domain.ArtistRef{},
	}
	if !req.IncludeSimilar {
		return result, nil
	}

	similar := s.expander.Expand(ctx, token, artists)
	if len(similar) == 0 {
		// expansion is best-effort; zero recommendations is not an error
		return result, nil
	}

	similarEvents := s.events.Search(ctx, artistNames(similar), loc, integrations.SimilarPageSize)

	// base entries first so they win on id collisions
	merged := domain.NewEventSet()
	merged.AddAll(baseEvents)
	merged.AddAll(similarEvents)

	result.Events = merged.Events(domain.MaxEventResults)
	result.Similar = similar
	return result, nil
}

func artistNames(artists []domain.ArtistRef) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}
