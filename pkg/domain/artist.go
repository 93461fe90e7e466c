package domain

type ArtistRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

// Key returns the identity used for deduplication: the provider-assigned
// ID when present, otherwise the name as-is.
func (a ArtistRef) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Name
}

// AffinityKind selects how the listener's artist interest set is derived.
type AffinityKind string

const (
	AffinityFollowed   AffinityKind = "followed"
	AffinityTopArtists AffinityKind = "top_artists"
	AffinityTopTracks  AffinityKind = "top_tracks"
)

// ParseAffinityKind validates a caller-supplied affinity kind. An empty
// value defaults to the followed-artists listing.
func ParseAffinityKind(s string) (AffinityKind, error) {
	switch AffinityKind(s) {
	case "":
		return AffinityFollowed, nil
	case AffinityFollowed, AffinityTopArtists, AffinityTopTracks:
		return AffinityKind(s), nil
	}
	return "", ErrInvalidRequest
}

// TimeRange is the window a top-artists or top-tracks listing covers.
// Values mirror the streaming provider's enum.
type TimeRange string

const (
	TimeRangeShort  TimeRange = "short_term"  // roughly 4 weeks
	TimeRangeMedium TimeRange = "medium_term" // roughly 6 months
	TimeRangeLong   TimeRange = "long_term"   // all time
)

func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "":
		return TimeRangeMedium, nil
	case TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		return TimeRange(s), nil
	}
	return "", ErrInvalidRequest
}
