package domain

// EventRecord is one show as presented to the caller. Date is either
// "YYYY-MM-DD", "YYYY-MM-DD HH:MM" or the literal "TBA"; the ticketing
// provider assigns the ID.
type EventRecord struct {
	ID     string `json:"id"`
	Artist string `json:"artist"`
	Date   string `json:"date"`
	Venue  string `json:"venue"`
	City   string `json:"city"`
	URL    string `json:"url"`
}

// MaxEventResults caps the merged event collection of one search.
const MaxEventResults = 150

type SearchResultSet struct {
	Events  []EventRecord `json:"events"`
	Similar []ArtistRef   `json:"similar"`
}

// EventSet is an insertion-ordered collection of events keyed by event ID.
// The first record added under a given ID wins; later duplicates are
// discarded, not merged. The same event routinely surfaces under several
// artist queries (festival bills), so this is the dedup point for the
// whole search.
type EventSet struct {
	order []string
	byID  map[string]EventRecord
}

func NewEventSet() *EventSet {
	return &EventSet{byID: make(map[string]EventRecord)}
}

// Add inserts ev unless its ID is empty or already present. It reports
// whether the record was kept.
func (s *EventSet) Add(ev EventRecord) bool {
	if ev.ID == "" {
		return false
	}
	if _, ok := s.byID[ev.ID]; ok {
		return false
	}
	s.byID[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	return true
}

// AddAll inserts each record in order, keeping first occurrences.
func (s *EventSet) AddAll(events []EventRecord) {
	for _, ev := range events {
		s.Add(ev)
	}
}

func (s *EventSet) Len() int {
	return len(s.order)
}

// Events returns the records in insertion order, truncated to max when
// max is positive.
func (s *EventSet) Events(max int) []EventRecord {
	n := len(s.order)
	if max > 0 && n > max {
		n = max
	}
	out := make([]EventRecord, 0, n)
	for _, id := range s.order[:n] {
		out = append(out, s.byID[id])
	}
	return out
}
