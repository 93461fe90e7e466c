package integrations

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yair/showscout/pkg/domain"
)

const (
	similarSeedCap   = 25
	similarResultCap = 60
)

// SimilarityExpander widens a seed artist set through the streaming
// provider's related-artist graph. Expansion is best-effort: a failed
// seed is skipped, and even all seeds failing yields an empty set rather
// than an error.
type SimilarityExpander struct {
	spotify     *SpotifyClient
	logger      zerolog.Logger
	concurrency int
}

func NewSimilarityExpander(spotify *SpotifyClient, logger zerolog.Logger) *SimilarityExpander {
	return &SimilarityExpander{
		spotify:     spotify,
		logger:      logger,
		concurrency: fanoutConcurrency,
	}
}

// Expand fetches related artists for at most 25 seeds and merges them
// into one set keyed by artist identity, first-seen-wins, truncated to 60
// in discovery order. Seeds without an ID are skipped.
func (e *SimilarityExpander) Expand(ctx context.Context, token string, seeds []domain.ArtistRef) []domain.ArtistRef {
	seedIDs := make([]string, 0, similarSeedCap)
	for _, seed := range seeds {
		if seed.ID == "" {
			continue
		}
		seedIDs = append(seedIDs, seed.ID)
		if len(seedIDs) == similarSeedCap {
			break
		}
	}

	results := make([][]domain.ArtistRef, len(seedIDs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.concurrency)

	for i, id := range seedIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			related, err := e.spotify.RelatedArtists(ctx, token, id)
			if err != nil {
				e.logger.Warn().Err(err).Str("seed", id).Msg("related artists skipped")
				return
			}
			results[i] = related
		}(i, id)
	}

	wg.Wait()

	seen := make(map[string]bool)
	similar := make([]domain.ArtistRef, 0, similarResultCap)
	for _, related := range results {
		for _, artist := range related {
			if seen[artist.Key()] {
				continue
			}
			seen[artist.Key()] = true
			similar = append(similar, artist)
			if len(similar) == similarResultCap {
				return similar
			}
		}
	}
	return similar
}
