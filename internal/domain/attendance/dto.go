package attendance

import (
	"github.com/chronotrack/attendance-backend-go/internal/pkg/validator"
)

// Action is the requested attendance operation.
type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionCheckOut   Action = "check_out"
	ActionBreakStart Action = "break_start"
	ActionBreakEnd   Action = "break_end"
)

var actionValues = []string{
	string(ActionCheckIn),
	string(ActionCheckOut),
	string(ActionBreakStart),
	string(ActionBreakEnd),
}

// ActionRequest is the engine-level request for any attendance
// operation. Identity comes from the authenticated context, never from
// the request body.
type ActionRequest struct {
	EmployeeID string
	OrgID      string

	Action     Action
	LocationID *string
	Latitude   *float64
	Longitude  *float64
	Accuracy   *float64
	Notes      string
}

func (r ActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "is required"})
	}
	if !validator.IsInSlice(string(r.Action), actionValues) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be one of check_in, check_out, break_start, break_end"})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter selects attendance records for review listings.
type ListFilter struct {
	EmployeeID *string
	Date       *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

func (f ListFilter) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if v != nil && *v != "" {
			if _, ok := validator.IsValidDate(*v); !ok {
				errs = append(errs, validator.ValidationError{Field: field, Message: "must be formatted as YYYY-MM-DD"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListResult is a page of records plus paging metadata.
type ListResult struct {
	TotalCount int64
	Page       int
	Limit      int
	Records    []Record
}
