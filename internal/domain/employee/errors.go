package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("Employee not found")
	ErrEmployeeInactive = errors.New("Employee is inactive")

	// ErrVisibilityDenied: the caller's capability does not cover the
	// requested employee's records.
	ErrVisibilityDenied = errors.New("Not allowed to view this employee's records")
)
