package integrations

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yair/showscout/pkg/domain"
)

const (
	// fanoutArtistCap bounds upstream cost: at most this many artist
	// queries per search.
	fanoutArtistCap = 60

	fanoutConcurrency = 6

	// Per-artist page sizes, base search vs similarity expansion.
	BasePageSize    = 15
	SimilarPageSize = 10
)

// EventFanout issues one bounded event search per artist name and merges
// the results into a single deduplicated collection. One artist's failure
// never aborts the batch; that query is logged and skipped.
type EventFanout struct {
	ticketmaster *TicketmasterClient
	logger       zerolog.Logger
	concurrency  int
}

func NewEventFanout(ticketmaster *TicketmasterClient, logger zerolog.Logger) *EventFanout {
	return &EventFanout{
		ticketmaster: ticketmaster,
		logger:       logger,
		concurrency:  fanoutConcurrency,
	}
}

// Search fans the artist names out to the ticketing provider with bounded
// concurrency and returns the merged events, first occurrence of each
// event ID winning, capped at 150. Results keep the order of the input
// names regardless of which query finishes first.
func (f *EventFanout) Search(ctx context.Context, names []string, loc domain.QueryLocation, pageSize int) []domain.EventRecord {
	if len(names) > fanoutArtistCap {
		names = names[:fanoutArtistCap]
	}

	queries := make([]string, 0, len(names))
	for _, raw := range names {
		if name := strings.TrimSpace(raw); name != "" {
			queries = append(queries, name)
		}
	}

	results := make([][]domain.EventRecord, len(queries))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, f.concurrency)

	for i, name := range queries {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			events, err := f.ticketmaster.SearchArtistEvents(ctx, name, loc, pageSize)
			if err != nil {
				f.logger.Warn().Err(err).Str("artist", name).Msg("event search skipped")
				return
			}
			results[i] = events
		}(i, name)
	}

	wg.Wait()

	merged := domain.NewEventSet()
	for _, events := range results {
		merged.AddAll(events)
	}
	return merged.Events(domain.MaxEventResults)
}
