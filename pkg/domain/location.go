package domain

import "strings"

// LocationKind tags the active QueryLocation variant.
type LocationKind int

const (
	// LocationUnscoped means no usable location input was supplied and the
	// search runs as an unscoped keyword search. Deliberate fallback, not
	// an error.
	LocationUnscoped LocationKind = iota
	LocationCoordinates
	LocationPostalCode
	LocationCity
)

const defaultRadiusMiles = 25

// QueryLocation is the normalized "where" of an event search. Exactly one
// variant is active; RadiusMiles is meaningful only for the coordinates
// and postal-code variants because the ticketing provider cannot combine
// a free-text city with a radius.
type QueryLocation struct {
	Kind        LocationKind
	Lat, Lon    float64
	PostalCode  string
	City        string
	RadiusMiles int
}

// ResolveLocation normalizes raw location input into a QueryLocation.
// Explicit coordinates win over free text; free text containing a
// five-digit run is treated as a postal code; any other non-empty text is
// matched as a city name.
func ResolveLocation(lat, lon *float64, radiusMiles int, text string) QueryLocation {
	if lat != nil && lon != nil {
		return QueryLocation{
			Kind:        LocationCoordinates,
			Lat:         *lat,
			Lon:         *lon,
			RadiusMiles: clampRadius(radiusMiles),
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return QueryLocation{Kind: LocationUnscoped}
	}

	if looksLikePostalCode(text) {
		return QueryLocation{
			Kind:        LocationPostalCode,
			PostalCode:  text,
			RadiusMiles: clampRadius(radiusMiles),
		}
	}

	return QueryLocation{Kind: LocationCity, City: text}
}

// CityHint returns the city text used in the query, for defaulting an
// event's city when the provider response carries none.
func (q QueryLocation) CityHint() string {
	if q.Kind == LocationCity {
		return q.City
	}
	return ""
}

// looksLikePostalCode reports whether text contains a contiguous run of
// five digits, the heuristic for "this is a US ZIP, not a city name".
func looksLikePostalCode(text string) bool {
	run := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			run++
			if run == 5 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func clampRadius(miles int) int {
	if miles == 0 {
		return defaultRadiusMiles
	}
	if miles < 1 {
		return 1
	}
	return miles
}
