package models

import "github.com/hireloop/interviewd/pkg/errors"

var (
	// ErrNotFound: a process, slot or invitee id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied: the caller is not an invitee of the process, or
	// tries to book before being invited.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput: malformed input, rejected before any persistence.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlotTaken: the slot got booked by the time the commit ran.
	// Refresh and pick another slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrStaleInterviewee: the invitee changed concurrently; the version
	// read before the attempt no longer matches. Refresh and retry.
	ErrStaleInterviewee = errors.New("interviewee modified concurrently")
)
