package googlemaps

// Wire types for the Google Directions API (JSON).

type directionsResponse struct {
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	Routes       []gmRoute `json:"routes"`
}

type gmRoute struct {
	Summary          string     `json:"summary"`
	Legs             []gmLeg    `json:"legs"`
	OverviewPolyline gmPolyline `json:"overview_polyline"`
}

type gmPolyline struct {
	Points string `json:"points"`
}

type gmLeg struct {
	Distance gmValue `json:"distance"`
	Duration gmValue `json:"duration"`
}

// gmValue is a Google value/text pair; Value carries meters for
// distances and seconds for durations.
type gmValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// Directions API status codes.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusNotFound       = "NOT_FOUND"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusRequestDenied  = "REQUEST_DENIED"
	statusUnknownError   = "UNKNOWN_ERROR"
)
