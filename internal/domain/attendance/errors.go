package attendance

import (
	"errors"
	"fmt"
)

var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrInvalidTimestamp  = errors.New("check-out time must be after check-in time")
	ErrInvalidState      = errors.New("operation not allowed in the current state")
	ErrOutOfRange        = errors.New("you are outside the allowed location radius")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrDuplicateRecord is returned by Repository.Create when a record
	// for the same (employee, date) already exists. The unique index in
	// the store is the authoritative guard; the service translates this
	// into ErrAlreadyCheckedIn.
	ErrDuplicateRecord = errors.New("attendance record already exists for this date")
)

// OutOfRangeError carries the measured and allowed distances so callers
// can tell the employee how far off they are.
type OutOfRangeError struct {
	LocationName   string
	DistanceMeters int
	RadiusMeters   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %dm away from %s; maximum allowed distance is %dm",
		e.DistanceMeters, e.LocationName, e.RadiusMeters)
}

// Is lets errors.Is(err, ErrOutOfRange) match the detailed error.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
