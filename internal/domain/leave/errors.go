package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidRange         = errors.New("start date must not be after end date")
	ErrPastDate             = errors.New("cannot apply for leave in the past")
	ErrOverlappingRequest   = errors.New("you already have a leave request for these dates")
	ErrAlreadyDecided       = errors.New("leave request has already been processed")
	ErrInvalidDecision      = errors.New("decision must be APPROVED or REJECTED")
)
