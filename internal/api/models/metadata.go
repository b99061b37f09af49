package models

// HubInfo describes one freight hub in the network.
type HubInfo struct {
	Name      string   `json:"name"`
	Point     Point    `json:"point"`
	Type      string   `json:"type"`
	Railroads []string `json:"railroads,omitempty"`
	Modes     []string `json:"modes"`
}

// HubsResponse lists every hub the engine can route between.
type HubsResponse struct {
	Items []HubInfo `json:"items"`
}

// Enums represents the enum values used by the API.
type Enums struct {
	Modes       []string `json:"modes"`
	Fuels       []string `json:"fuels"`
	Preferences []string `json:"preferences"`
}
