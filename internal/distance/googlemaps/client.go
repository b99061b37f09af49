// Package googlemaps provides a client for the Google Directions API,
// used for live truck routing between hubs.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/pkg/polyline"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "googlemaps"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// metersPerMile converts Directions API meters to statute miles.
	metersPerMile = 0.000621371
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Maps client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Maps client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Directions retrieves truck driving directions between two hubs. Any
// failure surfaces as an error so the caller can fall through to
// curated mileage; this client never guesses.
func (c *Client) Directions(ctx context.Context, origin, destination string) (*distance.Directions, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", "driving")
	params.Set("units", "imperial")
	params.Set("avoid", "tolls")
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/directions/json?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Msg("requesting truck directions from Google")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &distance.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      distance.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleHTTPError(resp.StatusCode)
	}

	var gmResp directionsResponse
	if err := json.Unmarshal(respBody, &gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status != statusOK {
		return nil, c.handleStatusError(&gmResp)
	}
	if len(gmResp.Routes) == 0 {
		return nil, &distance.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  fmt.Sprintf("no routes returned for %s to %s", origin, destination),
			Err:      distance.ErrNoRouteFound,
		}
	}

	result := c.toDirections(&gmResp.Routes[0])

	c.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Float64("distance_miles", result.DistanceMiles).
		Float64("duration_hours", result.DurationHours).
		Msg("received truck directions from Google")

	return result, nil
}

// handleHTTPError maps transport-level failures to domain errors.
func (c *Client) handleHTTPError(statusCode int) error {
	if statusCode == http.StatusTooManyRequests {
		return &distance.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      distance.ErrRateLimitExceeded,
		}
	}
	return &distance.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("directions provider returned status %d", statusCode),
		Err:      distance.ErrProviderUnavailable,
	}
}

// handleStatusError maps Directions API status codes to domain errors.
func (c *Client) handleStatusError(resp *directionsResponse) error {
	switch resp.Status {
	case statusZeroResults, statusNotFound:
		return &distance.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "no route found between the given hubs",
			Err:      distance.ErrNoRouteFound,
		}
	case statusOverQueryLimit:
		return &distance.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "API quota exceeded",
			Err:      distance.ErrRateLimitExceeded,
		}
	case statusRequestDenied:
		return &distance.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "API access denied - check API key configuration",
			Err:      distance.ErrProviderUnavailable,
		}
	default:
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "directions provider returned status " + resp.Status
		}
		return &distance.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  msg,
			Err:      distance.ErrProviderUnavailable,
		}
	}
}

// toDirections converts a Directions API route to the domain model.
func (c *Client) toDirections(route *gmRoute) *distance.Directions {
	var meters, seconds float64
	for _, leg := range route.Legs {
		meters += leg.Distance.Value
		seconds += leg.Duration.Value
	}

	var geometry []distance.Coordinate
	if route.OverviewPolyline.Points != "" {
		for _, c := range polyline.Decode(route.OverviewPolyline.Points) {
			geometry = append(geometry, distance.Coordinate{Lat: c.Lat, Lon: c.Lon})
		}
	}

	return &distance.Directions{
		DistanceMiles: math.Round(meters * metersPerMile),
		DurationHours: math.Round(seconds/3600*10) / 10,
		Geometry:      geometry,
		Summary:       route.Summary,
		Provider:      ProviderName,
		FetchedAt:     time.Now(),
	}
}
