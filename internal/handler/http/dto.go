package http

import (
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
)

type recordResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ShiftID    *string `json:"shift_id,omitempty"`

	CheckInAt  *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`

	State  string `json:"state"`
	Status string `json:"status"`

	LateMinutes     int `json:"late_minutes"`
	OvertimeMinutes int `json:"overtime_minutes"`
	BreakMinutes    int `json:"break_minutes"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRecordResponse(rec attendance.Record) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		Date:            rec.Date,
		ShiftID:         rec.ShiftID,
		CheckInAt:       rec.CheckInAt,
		CheckOutAt:      rec.CheckOutAt,
		State:           string(rec.State),
		Status:          string(rec.Status),
		LateMinutes:     rec.LateMinutes,
		OvertimeMinutes: rec.OvertimeMinutes,
		BreakMinutes:    rec.BreakMinutes,
		Notes:           rec.Notes,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

type locationResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int       `json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toLocationResponse(loc location.Location) locationResponse {
	return locationResponse{
		ID:           loc.ID,
		Name:         loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		CreatedAt:    loc.CreatedAt,
		UpdatedAt:    loc.UpdatedAt,
	}
}

type shiftWindowResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	DaysOfWeek []int     `json:"days_of_week"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toShiftWindowResponse(w shift.Window) shiftWindowResponse {
	return shiftWindowResponse{
		ID:         w.ID,
		Name:       w.Name,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		DaysOfWeek: w.DaysOfWeek,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

type assignmentResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	ShiftID    string    `json:"shift_id"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAssignmentResponse(a shift.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ShiftID:    a.ShiftID,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		CreatedAt:  a.CreatedAt,
	}
}
