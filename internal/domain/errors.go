package domain

import "errors"

var (
	// ErrInvalidDate is returned when a date field is missing or could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidInput is returned when a required collection is nil rather than empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAssignmentNotFound indicates the assignment snapshot could not be loaded.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrStudentNotFound indicates no activity snapshot exists for a student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrProgressNotFound is returned when no tutorial progress was stored for a user.
	ErrProgressNotFound = errors.New("tutorial progress not found")
)
