package openai

// Wire types for the OpenAI chat completions API.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// priceReply is the JSON object the oracle is prompted to produce for
// commodity prices. Pointer fields distinguish absent from zero.
type priceReply struct {
	Price      *float64 `json:"price"`
	Unit       string   `json:"unit"`
	Source     string   `json:"source"`
	Date       string   `json:"date"`
	Confidence string   `json:"confidence"`
}

// factorsReply is the JSON object the oracle is prompted to produce for
// transport factors. All four numeric fields are required.
type factorsReply struct {
	BaseRatePerMile           *float64 `json:"base_rate_per_mile"`
	FuelSurcharge             *float64 `json:"fuel_surcharge"`
	SpecialHandlingMultiplier *float64 `json:"special_handling_multiplier"`
	DistanceEfficiency        *float64 `json:"distance_efficiency"`
	MarketConditions          string   `json:"market_conditions"`
}
