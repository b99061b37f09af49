package handler

import (
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/cost"
	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/planner"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// ListHubs handles GET /v1/metadata/hubs - the routable hub network.
func (h *MetadataHandler) ListHubs(w http.ResponseWriter, r *http.Request) {
	hubs := network.Hubs()
	items := make([]models.HubInfo, 0, len(hubs))
	for _, hub := range hubs {
		modes := []string{string(network.ModeTruck)}
		if hub.RailServed() {
			modes = append(modes, string(network.ModeRail))
		}
		items = append(items, models.HubInfo{
			Name:      hub.Name,
			Point:     models.Point{Lat: hub.Lat, Lon: hub.Lon},
			Type:      string(hub.Type),
			Railroads: hub.Railroads,
			Modes:     modes,
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.HubsResponse{Items: items})
}

// GetEnums handles GET /v1/metadata/enums - enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	modes := network.Modes()
	modeStrings := make([]string, len(modes))
	for i, m := range modes {
		modeStrings[i] = string(m)
	}

	enums := models.Enums{
		Modes: modeStrings,
		Fuels: cost.Fuels(),
		Preferences: []string{
			string(planner.PreferCost),
			string(planner.PreferDistance),
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}
