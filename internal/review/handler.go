package review

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/activation"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the review module.
type Handler struct {
	service   *Service
	activator Activator
	validator *validator.Validate
}

// NewHandler creates a new review handler.
func NewHandler(service *Service, activator Activator) *Handler {
	return &Handler{
		service:   service,
		activator: activator,
		validator: validator.New(),
	}
}

// RegisterOperatorRoutes registers review routes requiring operator role.
func (h *Handler) RegisterOperatorRoutes(r chi.Router) {
	r.Get("/properties/{propertyID}", h.GetProperty)
	r.Post("/properties/{propertyID}/decision", h.Decide)
	r.Post("/properties/{propertyID}/activate", h.Activate)
}

// DecideRequest represents the request body for a review decision.
type DecideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved denied"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// ActivateRequest represents the request body for an activation trigger.
type ActivateRequest struct {
	Source string `json:"source" validate:"omitempty,min=1,max=64"`
}

// GetProperty handles GET /properties/{propertyID}.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	property, err := h.service.GetProperty(r.Context(), propertyID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, property)
}

// Decide handles POST /properties/{propertyID}/decision. The decision
// response reflects only the decision itself; activation outcomes surface
// through the audit trail.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	actorID := httputil.GetUserID(r.Context())

	if err := h.service.Decide(r.Context(), propertyID, domain.ServiceStatus(req.Decision), req.Notes, actorID); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{
		"service_status": req.Decision,
	})
}

// Activate handles POST /properties/{propertyID}/activate, the entry point
// for triggers that have not claimed selections themselves. The service
// claims atomically, so a trigger racing an approval is safe.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	var req ActivateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httputil.ValidationError(w, err)
			return
		}
	}
	if req.Source == "" {
		req.Source = activation.SourceAuto
	}

	property, err := h.service.GetProperty(r.Context(), propertyID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	result, err := h.activator.Activate(r.Context(), propertyID, property.UserID, activation.Options{
		Source: req.Source,
	})
	if err != nil {
		slog.Error("activation failed", "property_id", propertyID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.Success(w, http.StatusOK, result)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrPropertyNotFound, Status: http.StatusNotFound},
	{Error: ErrAlreadyDecided, Status: http.StatusConflict},
	{Error: ErrInvalidDecision, Status: http.StatusBadRequest},
}
