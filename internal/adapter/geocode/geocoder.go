package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

// Client is a thin wrapper over a Google-style geocoding endpoint: free-text
// address in, structured location out. No retry, no caching, no rate
// limiting; timeouts are left to the remote side per the caller's context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     log,
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

func (c *Client) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	endpoint := fmt.Sprintf("%s?address=%s&key=%s", c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Geocode.Resolve: request failed", "address", address, "error", err.Error())
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Geocode.Resolve: unexpected status", "address", address, "status", resp.StatusCode)
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		c.logger.Info("Geocode.Resolve: no results", "address", address, "status", body.Status)
		return nil, domain.ErrAddressUnresolved
	}

	first := body.Results[0]
	return &domain.GeocodeResult{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
