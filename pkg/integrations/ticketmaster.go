package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yair/showscout/pkg/domain"
)

// TicketmasterClient talks to the Ticketmaster Discovery API. Outbound
// calls go through a shared limiter to stay under the provider's
// requests-per-second quota during fan-out bursts.
type TicketmasterClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewTicketmasterClient(apiKey string) (*TicketmasterClient, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	return &TicketmasterClient{
		baseURL:    "https://app.ticketmaster.com/discovery/v2",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}, nil
}

type tmEventDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
}

type tmVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type tmAttraction struct {
	Name string `json:"name"`
}

type tmEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start tmEventDate `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues      []tmVenue      `json:"venues"`
		Attractions []tmAttraction `json:"attractions"`
	} `json:"_embedded"`
}

type tmEventsResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

// SearchArtistEvents runs one keyword search scoped to loc and maps the
// response into EventRecords. size is the provider page size for this
// query.
func (c *TicketmasterClient) SearchArtistEvents(ctx context.Context, keyword string, loc domain.QueryLocation, size int) ([]domain.EventRecord, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ErrInvalidRequest
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := buildEventQuery(keyword, loc, size)
	params.Set("apikey", c.apiKey)

	eventsURL := fmt.Sprintf("%s/events.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: "ticketmaster", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{Provider: "ticketmaster", Status: resp.StatusCode}
	}

	var eventsResp tmEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&eventsResp); err != nil {
		return nil, fmt.Errorf("failed to decode ticketmaster response: %w", err)
	}

	events := make([]domain.EventRecord, 0, len(eventsResp.Embedded.Events))
	for _, ev := range eventsResp.Embedded.Events {
		events = append(events, mapEvent(ev, loc, keyword))
	}
	return events, nil
}

// buildEventQuery assembles the discovery query for one artist keyword.
// The location constraint is taken verbatim from the active QueryLocation
// variant; city and radius are never combined because the provider only
// honors radius next to geo or postal scoping.
func buildEventQuery(keyword string, loc domain.QueryLocation, size int) url.Values {
	params := url.Values{}
	params.Set("classificationName", "music")
	params.Set("keyword", keyword)
	params.Set("sort", "date,asc")
	params.Set("size", strconv.Itoa(size))

	switch loc.Kind {
	case domain.LocationCoordinates:
		params.Set("latlong", formatLatLong(loc.Lat, loc.Lon))
		params.Set("radius", strconv.Itoa(loc.RadiusMiles))
		params.Set("unit", "miles")
	case domain.LocationPostalCode:
		params.Set("postalCode", loc.PostalCode)
		params.Set("radius", strconv.Itoa(loc.RadiusMiles))
		params.Set("unit", "miles")
	case domain.LocationCity:
		params.Set("city", loc.City)
	case domain.LocationUnscoped:
		// unscoped keyword search, no location params
	}

	return params
}

func formatLatLong(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

func mapEvent(ev tmEvent, loc domain.QueryLocation, queryName string) domain.EventRecord {
	record := domain.EventRecord{
		ID:     ev.ID,
		Artist: deriveArtist(ev, queryName),
		Date:   deriveDate(ev.Dates.Start),
		Venue:  "TBA",
		City:   loc.CityHint(),
		URL:    "#",
	}

	if len(ev.Embedded.Venues) > 0 {
		venue := ev.Embedded.Venues[0]
		if venue.Name != "" {
			record.Venue = venue.Name
		}
		if venue.City.Name != "" {
			record.City = venue.City.Name
		}
	}

	if ev.URL != "" {
		record.URL = ev.URL
	}

	return record
}

func deriveDate(start tmEventDate) string {
	if start.LocalDate == "" {
		return "TBA"
	}
	if start.LocalTime != "" {
		return start.LocalDate + " " + start.LocalTime
	}
	return start.LocalDate
}

// deriveArtist picks the display artist for an event: the first listed
// attraction, else the event title up to " at ", else the query keyword.
func deriveArtist(ev tmEvent, queryName string) string {
	if len(ev.Embedded.Attractions) > 0 && ev.Embedded.Attractions[0].Name != "" {
		return ev.Embedded.Attractions[0].Name
	}
	if name := titleArtist(ev.Name); name != "" {
		return name
	}
	return queryName
}

// titleArtist extracts the performer from an "X at Venue" style title,
// returning the whole title when no separator is present. Known
// limitation: an artist name that itself contains " at " splits at the
// first occurrence.
func titleArtist(title string) string {
	name, _, _ := strings.Cut(title, " at ")
	return name
}
