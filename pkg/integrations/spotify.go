package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yair/showscout/pkg/domain"
)

const (
	followedPageLimit  = 50
	followedMaxArtists = 200
	topListingDefault  = 25
	topListingMax      = 50 // Spotify caps top listings at 50
	artistLookupBatch  = 50
)

// SpotifyClient talks to the Spotify Web API on behalf of a listener. The
// bearer token is supplied per call by the session layer; the client holds
// no credential state of its own.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSpotifyClient() *SpotifyClient {
	return &SpotifyClient{
		baseURL: "https://api.spotify.com/v1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

func (a spotifyArtist) toRef() domain.ArtistRef {
	ref := domain.ArtistRef{ID: a.ID, Name: a.Name}
	if len(a.Images) > 0 {
		ref.ImageURL = a.Images[0].URL
	}
	return ref
}

type spotifyFollowedResponse struct {
	Artists struct {
		Items []spotifyArtist `json:"items"`
		Next  *string         `json:"next"`
	} `json:"artists"`
}

type spotifyTopArtistsResponse struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyTopTracksResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Artists []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"items"`
}

type spotifyArtistsResponse struct {
	Artists []spotifyArtist `json:"artists"`
}

type spotifyRelatedResponse struct {
	Artists []spotifyArtist `json:"artists"`
}

// FollowedArtists pages through the listener's followed-artists listing
// using the provider's continuation cursor until the cursor is exhausted
// or 200 artists have accumulated. Any page failure aborts the whole
// listing.
func (c *SpotifyClient) FollowedArtists(ctx context.Context, token string) ([]domain.ArtistRef, error) {
	next := fmt.Sprintf("%s/me/following?type=artist&limit=%d", c.baseURL, followedPageLimit)

	artists := make([]domain.ArtistRef, 0, followedPageLimit)
	for next != "" && len(artists) < followedMaxArtists {
		var page spotifyFollowedResponse
		if err := c.getJSON(ctx, token, next, &page); err != nil {
			return nil, err
		}

		for _, a := range page.Artists.Items {
			artists = append(artists, a.toRef())
		}

		if page.Artists.Next == nil {
			break
		}
		next = *page.Artists.Next
	}

	if len(artists) > followedMaxArtists {
		artists = artists[:followedMaxArtists]
	}
	return artists, nil
}

// TopArtists returns the listener's top artists over the given time
// range, in provider order. The limit is capped at the provider maximum.
func (c *SpotifyClient) TopArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error) {
	u := fmt.Sprintf("%s/me/top/artists?time_range=%s&limit=%d", c.baseURL, timeRange, clampTopLimit(limit))

	var resp spotifyTopArtistsResponse
	if err := c.getJSON(ctx, token, u, &resp); err != nil {
		return nil, err
	}

	artists := make([]domain.ArtistRef, 0, len(resp.Items))
	for _, a := range resp.Items {
		artists = append(artists, a.toRef())
	}
	return artists, nil
}

// TopTrackArtists derives artists from the listener's top tracks: the
// primary (first-listed) artist of each track, deduplicated by ID in
// listening order. The tracks listing carries no artist images, so the
// deduplicated IDs go through a second batched artist lookup to recover
// display names and images.
func (c *SpotifyClient) TopTrackArtists(ctx context.Context, token string, timeRange domain.TimeRange, limit int) ([]domain.ArtistRef, error) {
	u := fmt.Sprintf("%s/me/top/tracks?time_range=%s&limit=%d", c.baseURL, timeRange, clampTopLimit(limit))

	var resp spotifyTopTracksResponse
	if err := c.getJSON(ctx, token, u, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(resp.Items))
	for _, track := range resp.Items {
		if len(track.Artists) == 0 {
			continue
		}
		primary := track.Artists[0]
		if primary.ID == "" || seen[primary.ID] {
			continue
		}
		seen[primary.ID] = true
		ids = append(ids, primary.ID)
	}

	return c.artistsByID(ctx, token, ids)
}

// RelatedArtists returns the related-artist listing for one seed artist.
func (c *SpotifyClient) RelatedArtists(ctx context.Context, token, artistID string) ([]domain.ArtistRef, error) {
	u := fmt.Sprintf("%s/artists/%s/related-artists", c.baseURL, artistID)

	var resp spotifyRelatedResponse
	if err := c.getJSON(ctx, token, u, &resp); err != nil {
		return nil, err
	}

	artists := make([]domain.ArtistRef, 0, len(resp.Artists))
	for _, a := range resp.Artists {
		artists = append(artists, a.toRef())
	}
	return artists, nil
}

// artistsByID resolves full artist records in batches of at most 50 IDs,
// preserving the input order across batches.
func (c *SpotifyClient) artistsByID(ctx context.Context, token string, ids []string) ([]domain.ArtistRef, error) {
	artists := make([]domain.ArtistRef, 0, len(ids))

	for start := 0; start < len(ids); start += artistLookupBatch {
		end := start + artistLookupBatch
		if end > len(ids) {
			end = len(ids)
		}

		u := fmt.Sprintf("%s/artists?ids=%s", c.baseURL, strings.Join(ids[start:end], ","))

		var resp spotifyArtistsResponse
		if err := c.getJSON(ctx, token, u, &resp); err != nil {
			return nil, err
		}
		for _, a := range resp.Artists {
			artists = append(artists, a.toRef())
		}
	}

	return artists, nil
}

func (c *SpotifyClient) getJSON(ctx context.Context, token, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UpstreamError{Provider: "spotify", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{Provider: "spotify", Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return nil
}

func clampTopLimit(limit int) int {
	if limit <= 0 {
		return topListingDefault
	}
	if limit > topListingMax {
		return topListingMax
	}
	return limit
}
