package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/validator"
)

type LocationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locations location.Store
}

func NewLocationHandler(locations location.Store) LocationHandler {
	return &locationHandlerImpl{locations: locations}
}

type locationRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

func (req locationRequest) validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(req.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsValidLatitude(req.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(req.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if req.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{Field: "radius_meters", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Create implements LocationHandler.
func (h *locationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	loc, err := h.locations.Create(r.Context(), location.Location{
		OrgID:        identity.OrgID,
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Location created", toLocationResponse(loc))
}

// Get implements LocationHandler.
func (h *locationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	loc, err := h.locations.Get(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLocationResponse(loc))
}

// List implements LocationHandler.
func (h *locationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	locations, err := h.locations.ListByOrg(r.Context(), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]locationResponse, len(locations))
	for i, loc := range locations {
		out[i] = toLocationResponse(loc)
	}
	response.Success(w, out)
}

// Update implements LocationHandler.
func (h *locationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	loc, err := h.locations.Update(r.Context(), location.Location{
		ID:           chi.URLParam(r, "id"),
		OrgID:        identity.OrgID,
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location updated", toLocationResponse(loc))
}

// Delete implements LocationHandler.
func (h *locationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	if err := h.locations.Delete(r.Context(), chi.URLParam(r, "id"), identity.OrgID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location deleted", nil)
}
