package selections

import (
	"encoding/json"
	"net/http"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for pending selections.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new selections handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers customer-facing selection routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/properties/{propertyID}/selections", h.SetSelections)
}

// RegisterOperatorRoutes registers routes used by the review UI.
func (h *Handler) RegisterOperatorRoutes(r chi.Router) {
	r.Get("/properties/{propertyID}/selections", h.ListSelections)
}

// SelectionRequest is one chosen service option in a submission.
type SelectionRequest struct {
	ServiceID  string `json:"service_id" validate:"required,min=1,max=255"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	UseSticker bool   `json:"use_sticker"`
}

// SetSelectionsRequest represents the request body for replacing a
// property's pending selections.
type SetSelectionsRequest struct {
	Selections []SelectionRequest `json:"selections" validate:"required,dive"`
}

// SetSelections handles POST /properties/{propertyID}/selections.
func (h *Handler) SetSelections(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	var req SetSelectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	inputs := make([]SelectionInput, 0, len(req.Selections))
	for _, sel := range req.Selections {
		inputs = append(inputs, SelectionInput{
			ServiceID:  sel.ServiceID,
			Quantity:   sel.Quantity,
			UseSticker: sel.UseSticker,
		})
	}

	sels, err := h.service.SetSelections(r.Context(), propertyID, httputil.GetUserID(r.Context()), inputs)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, sels)
}

// ListSelections handles GET /properties/{propertyID}/selections.
func (h *Handler) ListSelections(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")

	sels, err := h.service.ListSelections(r.Context(), propertyID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, sels)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrInvalidQuantity, Status: http.StatusBadRequest},
}
