// Catalog metadata lookup client.
//
// Communicates with the metadata proxy server running on port 8080 by
// default. The proxy fans out to the upstream metadata sources and returns
// normalized candidates.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

const defaultLookupBaseURL string = "http://localhost:8080"

// Strategy source tags recorded on enrichments.
const (
	SourceExact     = "exact"
	SourceTitleOnly = "title"
)

// lookupCandidate is one candidate row from the proxy search endpoint.
type lookupCandidate struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Composer    string `json:"composer"`
	ReleaseYear int    `json:"release_year"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	Label       string `json:"label"`
	Country     string `json:"country"`
	Confidence  int    `json:"confidence"`
}

type lookupResponse struct {
	Results []lookupCandidate `json:"results"`
}

// LookupService resolves items against the metadata proxy.
// Implements pipeline.Enricher.
type LookupService struct {
	baseURL    string
	httpClient *http.Client
}

// NewLookupService creates a lookup client for the metadata proxy.
// A zero timeout leaves the client without one; the proxy enforces its own.
func NewLookupService(baseURL string, timeout time.Duration) *LookupService {
	if baseURL == "" {
		baseURL = defaultLookupBaseURL
	}

	return &LookupService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the service name.
func (s *LookupService) Name() string {
	return "catalog-proxy"
}

// Enrich resolves one item, trying the exact strategy first and falling back
// to a title-only search. Returns [shared.ErrNoMatch] when no strategy
// produces a candidate.
func (s *LookupService) Enrich(ctx context.Context, item *models.MusicItem) (*models.Enrichment, error) {
	if item.Artist != "" {
		candidate, err := s.search(ctx, item.Title, item.Artist)
		if err == nil {
			return candidateEnrichment(candidate, SourceExact, 85), nil
		}
		if !isNoMatch(err) {
			return nil, err
		}
	}

	candidate, err := s.search(ctx, item.Title, "")
	if err != nil {
		return nil, err
	}
	return candidateEnrichment(candidate, SourceTitleOnly, 60), nil
}

// search queries the proxy and returns the best candidate.
func (s *LookupService) search(ctx context.Context, title, artist string) (*lookupCandidate, error) {
	params := url.Values{}
	params.Set("title", title)
	if artist != "" {
		params.Set("artist", artist)
	}

	apiURL := s.baseURL + "/api/lookup?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoMatch, title)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: lookup returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoMatch, title)
	}

	// The proxy orders candidates best-first.
	return &result.Results[0], nil
}

// candidateEnrichment converts a proxy candidate into an enrichment, filling
// in the strategy's default confidence when the proxy reports none.
func candidateEnrichment(c *lookupCandidate, source string, defaultConfidence int) *models.Enrichment {
	confidence := c.Confidence
	if confidence <= 0 {
		confidence = defaultConfidence
	}
	if confidence > 100 {
		confidence = 100
	}

	return &models.Enrichment{
		Fields: models.EnrichedFields{
			Composer:    c.Composer,
			ReleaseYear: c.ReleaseYear,
			Album:       c.Album,
			Genre:       c.Genre,
			Label:       c.Label,
			Country:     c.Country,
		},
		Confidence: confidence,
		Source:     source,
	}
}

func isNoMatch(err error) bool {
	return errors.Is(err, shared.ErrNoMatch)
}
