// Package openai provides a chat-completions client used as the AI
// pricing oracle for commodity quotes and transport cost factors.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this pricing oracle.
	ProviderName = "openai"

	// DefaultBaseURL is the OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second
)

// jsonObjectRe extracts the first JSON object from a completion, since
// models occasionally wrap the object in prose or code fences.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenAI oracle client.
type ClientConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// Model is the chat model to query (optional, defaults to gpt-4).
	Model string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 15s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenAI pricing oracle client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates an OpenAI oracle client.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

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
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the oracle name.
func (c *Client) Name() string {
	return ProviderName
}

// CommodityPrice asks the oracle for the current wholesale price of a
// fuel in USD per metric ton.
func (c *Client) CommodityPrice(ctx context.Context, fuelType string) (*pricing.Quote, error) {
	today := time.Now().UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a commodity pricing expert. Provide the current US wholesale market price for %s in USD per metric ton as of %s.

Use these UPDATED realistic price ranges based on current market conditions:
- Hydrogen: $3,000-4,500 per metric ton (industrial grade)
- Methanol: $650-850 per metric ton (wholesale)
- Ammonia: $450-600 per metric ton (industrial grade)

Consider current market volatility, supply chain factors, and energy costs.

Respond with ONLY a JSON object in this exact format with NO additional text:
{
  "price": 750,
  "unit": "USD_per_metric_ton",
  "source": "current_market_analysis",
  "date": "%s",
  "confidence": "high"
}`, fuelType, today, today)

	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a commodity pricing expert. Always respond with realistic wholesale market prices in valid JSON only, no additional text."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var reply priceReply
	if err := extractJSON(content, &reply); err != nil {
		return nil, &pricing.Error{
			Provider: ProviderName,
			Code:     "PARSE_FAILED",
			Message:  "oracle reply is not valid JSON",
			Err:      pricing.ErrMalformedOracleReply,
		}
	}
	if reply.Price == nil || !isFinite(*reply.Price) || *reply.Price <= 0 {
		return nil, &pricing.Error{
			Provider: ProviderName,
			Code:     "INVALID_PRICE",
			Message:  fmt.Sprintf("oracle returned an invalid price for %s", fuelType),
			Err:      pricing.ErrMalformedOracleReply,
		}
	}

	quote := &pricing.Quote{
		PricePerTon: *reply.Price,
		Unit:        "USD_per_ton",
		Source:      orDefault(reply.Source, "oracle_market_analysis"),
		Date:        orDefault(reply.Date, today),
		Confidence:  orDefault(reply.Confidence, "medium"),
	}

	c.logger.Debug().
		Str("fuel_type", fuelType).
		Float64("price_per_ton", quote.PricePerTon).
		Str("confidence", quote.Confidence).
		Msg("received commodity price from oracle")

	return quote, nil
}

// TransportFactors asks the oracle for market cost factors for moving a
// fuel over a distance by one mode.
func (c *Client) TransportFactors(ctx context.Context, mode network.Mode, fuelType string, distanceMiles float64) (*pricing.Factors, error) {
	today := time.Now().UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a transportation cost expert. Provide current market factors for transporting %s via %s over %.0f miles in the US as of %s.

Consider:
- Current fuel prices
- Distance: %.0f miles
- Special handling for %s
- Market demand and capacity
- Seasonal factors

Respond with ONLY a JSON object in this exact format with NO additional text:
{
  "base_rate_per_mile": 2.75,
  "fuel_surcharge": 0.18,
  "special_handling_multiplier": 1.3,
  "distance_efficiency": 0.95,
  "market_conditions": "normal"
}`, fuelType, mode, distanceMiles, today, distanceMiles, fuelType)

	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a transportation pricing expert. Always respond with valid JSON only containing realistic market rates."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	var reply factorsReply
	if err := extractJSON(content, &reply); err != nil {
		return nil, &pricing.Error{
			Provider: ProviderName,
			Code:     "PARSE_FAILED",
			Message:  "oracle reply is not valid JSON",
			Err:      pricing.ErrMalformedOracleReply,
		}
	}

	required := map[string]*float64{
		"base_rate_per_mile":          reply.BaseRatePerMile,
		"fuel_surcharge":              reply.FuelSurcharge,
		"special_handling_multiplier": reply.SpecialHandlingMultiplier,
		"distance_efficiency":         reply.DistanceEfficiency,
	}
	for field, value := range required {
		if value == nil || !isFinite(*value) {
			return nil, &pricing.Error{
				Provider: ProviderName,
				Code:     "INVALID_FACTORS",
				Message:  fmt.Sprintf("oracle returned an invalid %s", field),
				Err:      pricing.ErrMalformedOracleReply,
			}
		}
	}

	factors := &pricing.Factors{
		BaseRatePerMile:           *reply.BaseRatePerMile,
		FuelSurcharge:             *reply.FuelSurcharge,
		SpecialHandlingMultiplier: *reply.SpecialHandlingMultiplier,
		DistanceEfficiency:        *reply.DistanceEfficiency,
		MarketConditions:          reply.MarketConditions,
	}

	c.logger.Debug().
		Str("mode", string(mode)).
		Str("fuel_type", fuelType).
		Float64("base_rate_per_mile", factors.BaseRatePerMile).
		Msg("received transport factors from oracle")

	return factors, nil
}

// complete executes one chat completion and returns the message text.
func (c *Client) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &pricing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach pricing oracle",
			Err:      pricing.ErrOracleUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", &pricing.Error{
			Provider: ProviderName,
			Code:     "EMPTY_COMPLETION",
			Message:  "oracle returned no choices",
			Err:      pricing.ErrMalformedOracleReply,
		}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// handleErrorResponse maps OpenAI error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var chatResp chatResponse
	_ = json.Unmarshal(body, &chatResp)

	message := fmt.Sprintf("pricing oracle returned status %d", statusCode)
	if chatResp.Error != nil && chatResp.Error.Message != "" {
		message = chatResp.Error.Message
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &pricing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "oracle rate limit exceeded, please try again later",
			Err:      pricing.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &pricing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  "oracle access denied - check API key configuration",
			Err:      pricing.ErrOracleUnavailable,
		}
	case statusCode >= 500:
		return &pricing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "pricing oracle is temporarily unavailable",
			Err:      pricing.ErrOracleUnavailable,
		}
	default:
		return &pricing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  message,
			Err:      pricing.ErrOracleUnavailable,
		}
	}
}

// extractJSON pulls the first JSON object out of a completion and
// unmarshals it into v.
func extractJSON(content string, v any) error {
	match := jsonObjectRe.FindString(content)
	if match == "" {
		match = content
	}
	return json.Unmarshal([]byte(match), v)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
