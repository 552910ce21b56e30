package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type recordRequest struct {
	Action     string   `json:"action"`
	LocationID *string  `json:"location_id,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Record implements AttendanceHandler. One endpoint covers all four
// transitions; the action field selects which.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var body recordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := attendance.ActionRequest{
		EmployeeID: identity.EmployeeID,
		OrgID:      identity.OrgID,
		Action:     attendance.Action(body.Action),
		LocationID: body.LocationID,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
		Accuracy:   body.Accuracy,
		Notes:      body.Notes,
	}

	var (
		rec attendance.Record
		err error
	)
	switch req.Action {
	case attendance.ActionCheckIn:
		rec, err = h.attendanceService.CheckIn(r.Context(), req)
	case attendance.ActionCheckOut:
		rec, err = h.attendanceService.CheckOut(r.Context(), req)
	case attendance.ActionBreakStart:
		rec, err = h.attendanceService.StartBreak(r.Context(), req)
	case attendance.ActionBreakEnd:
		rec, err = h.attendanceService.EndBreak(r.Context(), req)
	default:
		// Let request validation produce the field-level error.
		rec, err = h.attendanceService.CheckIn(r.Context(), req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.Action == attendance.ActionCheckIn {
		response.Created(w, "Checked in", toRecordResponse(rec))
		return
	}
	response.Success(w, toRecordResponse(rec))
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	filter := parseListFilter(r)

	result, err := h.attendanceService.GetMyAttendance(r.Context(), identity.EmployeeID, identity.OrgID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeListResult(w, result)
}

// List implements AttendanceHandler. Managers and admins only; the
// route guard enforces that.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	filter := parseListFilter(r)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), identity.OrgID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeListResult(w, result)
}

func parseListFilter(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()

	var filter attendance.ListFilter
	if v := q.Get("date"); v != "" {
		filter.Date = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		filter.Limit = v
	}
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")
	return filter
}

func writeListResult(w http.ResponseWriter, result attendance.ListResult) {
	records := make([]recordResponse, len(result.Records))
	for i, rec := range result.Records {
		records[i] = toRecordResponse(rec)
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}

	response.SuccessWithMeta(w, records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}
