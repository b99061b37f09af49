package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/planner"
)

// RouteHandler handles route computation endpoints.
type RouteHandler struct {
	composer *planner.Composer
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(composer *planner.Composer) *RouteHandler {
	return &RouteHandler{composer: composer}
}

// ComputeRoutes handles POST /v1/routes:compute - generate ranked route
// options for a shipment.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	set, err := h.composer.GenerateRouteOptions(r.Context(), input.ToPlannerRequest())
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, set)
}

// CalculateRoute handles POST /v1/routes:calculate - re-derive the full
// reconciled cost breakdown for a previously offered option.
func (h *RouteHandler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteCalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.SelectedOption == nil {
		response.BadRequest(w, r, "selectedOption is required", []models.FieldError{
			{Field: "selectedOption", Message: "required"},
		})
		return
	}

	calc, err := h.composer.CalculateRoute(r.Context(), input.SelectedOption, input.Request.ToPlannerRequest())
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, calc)
}

// GetHistory handles GET /v1/routes/history - the most recent persisted
// calculations.
func (h *RouteHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.composer.History(r.Context(), 10)
	if err != nil {
		response.InternalError(w, r, "failed to load route history")
		return
	}

	items := make([]models.RouteHistoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, models.NewRouteHistoryItem(rec))
	}
	response.JSON(w, r, http.StatusOK, models.RouteHistoryResponse{Items: items})
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *planner.ValidationError
	if errors.As(err, &verr) {
		fields := make([]models.FieldError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = models.FieldError{Field: f.Field, Message: f.Message}
		}
		response.BadRequest(w, r, "invalid route request", fields)
		return
	}
	response.InternalError(w, r, "route computation failed")
}
