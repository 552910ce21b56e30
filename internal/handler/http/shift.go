package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/validator"
)

type ShiftHandler interface {
	CreateWindow(w http.ResponseWriter, r *http.Request)
	GetWindow(w http.ResponseWriter, r *http.Request)
	ListWindows(w http.ResponseWriter, r *http.Request)
	UpdateWindow(w http.ResponseWriter, r *http.Request)
	DeleteWindow(w http.ResponseWriter, r *http.Request)
	CreateAssignment(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	DeleteAssignment(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shifts shift.Store
}

func NewShiftHandler(shifts shift.Store) ShiftHandler {
	return &shiftHandlerImpl{shifts: shifts}
}

type shiftWindowRequest struct {
	Name       string `json:"name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	DaysOfWeek []int  `json:"days_of_week"`
}

func (req shiftWindowRequest) validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(req.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsValidClock(req.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be formatted as HH:MM"})
	}
	if !validator.IsValidClock(req.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be formatted as HH:MM"})
	}
	if len(req.DaysOfWeek) == 0 {
		errs = append(errs, validator.ValidationError{Field: "days_of_week", Message: "is required"})
	}
	for _, d := range req.DaysOfWeek {
		if d < 1 || d > 7 {
			errs = append(errs, validator.ValidationError{Field: "days_of_week", Message: "days must be between 1 (Monday) and 7 (Sunday)"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateWindow implements ShiftHandler.
func (h *shiftHandlerImpl) CreateWindow(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req shiftWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	window, err := h.shifts.CreateWindow(r.Context(), shift.Window{
		OrgID:      identity.OrgID,
		Name:       req.Name,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		DaysOfWeek: req.DaysOfWeek,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created", toShiftWindowResponse(window))
}

// GetWindow implements ShiftHandler.
func (h *shiftHandlerImpl) GetWindow(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	window, err := h.shifts.GetWindow(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toShiftWindowResponse(window))
}

// ListWindows implements ShiftHandler.
func (h *shiftHandlerImpl) ListWindows(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	windows, err := h.shifts.ListWindows(r.Context(), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]shiftWindowResponse, len(windows))
	for i, window := range windows {
		out[i] = toShiftWindowResponse(window)
	}
	response.Success(w, out)
}

// UpdateWindow implements ShiftHandler.
func (h *shiftHandlerImpl) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req shiftWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	window, err := h.shifts.UpdateWindow(r.Context(), shift.Window{
		ID:         chi.URLParam(r, "id"),
		OrgID:      identity.OrgID,
		Name:       req.Name,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		DaysOfWeek: req.DaysOfWeek,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated", toShiftWindowResponse(window))
}

// DeleteWindow implements ShiftHandler.
func (h *shiftHandlerImpl) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	if err := h.shifts.DeleteWindow(r.Context(), chi.URLParam(r, "id"), identity.OrgID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted", nil)
}

type assignmentRequest struct {
	EmployeeID string  `json:"employee_id"`
	ShiftID    string  `json:"shift_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (req assignmentRequest) validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(req.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(req.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(req.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be formatted as YYYY-MM-DD"})
	}
	if req.EndDate != nil {
		if _, ok := validator.IsValidDate(*req.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be formatted as YYYY-MM-DD"})
		} else if *req.EndDate < req.StartDate {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateAssignment implements ShiftHandler. The window must exist in the
// caller's org; assignments to other orgs' shifts are not representable.
func (h *shiftHandlerImpl) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if _, err := h.shifts.GetWindow(r.Context(), req.ShiftID, identity.OrgID); err != nil {
		response.HandleError(w, err)
		return
	}

	assignment, err := h.shifts.CreateAssignment(r.Context(), shift.Assignment{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned", toAssignmentResponse(assignment))
}

// ListAssignments implements ShiftHandler.
func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromRequest(r); !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id query parameter is required", nil)
		return
	}

	assignments, err := h.shifts.ListAssignments(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]assignmentResponse, len(assignments))
	for i, a := range assignments {
		out[i] = toAssignmentResponse(a)
	}
	response.Success(w, out)
}

// DeleteAssignment implements ShiftHandler.
func (h *shiftHandlerImpl) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromRequest(r); !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	if err := h.shifts.DeleteAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment removed", nil)
}
