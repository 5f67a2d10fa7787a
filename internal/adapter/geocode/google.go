package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// unresolvedToken is the placeholder the provider substitutes into the
// formatted address for components it could not resolve.
const unresolvedToken = "undefined"

const statusZeroResults = "ZERO_RESULTS"

// GoogleResolver resolves free-text addresses against a Google-geocode-shaped
// HTTP API. It keeps no local state and never retries; transient failures
// surface as ErrProviderUnavailable for the caller to decide retry policy.
type GoogleResolver struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewGoogleResolver(baseURL, apiKey string, logger *zap.Logger) *GoogleResolver {
	return &GoogleResolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleResolver) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if address == "" {
		return nil, &domain.ValidationError{Field: "address", Reason: "must not be empty"}
	}

	endpoint := fmt.Sprintf("%s?address=%s&key=%s",
		g.baseURL, url.QueryEscape(address), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Keep the transport error in the chain; callers distinguish a
		// cancelled request from a provider outage.
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	if payload.Status == statusZeroResults || len(payload.Results) == 0 {
		g.logger.Debug("address yielded no geocode results", zap.String("address", address))
		return nil, domain.ErrAddressUnresolvable
	}

	first := payload.Results[0]
	// A 200 payload without a usable formatted address fails the call rather
	// than defaulting coordinates to 0; zeroed coordinates must never reach a
	// committed record.
	if first.FormattedAddress == "" || strings.Contains(first.FormattedAddress, unresolvedToken) {
		g.logger.Debug("address resolved to an incomplete result", zap.String("address", address))
		return nil, domain.ErrAddressUnresolvable
	}

	return &domain.GeocodeResult{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
