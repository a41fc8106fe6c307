package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrEmployeeInactive = errors.New("employee account is inactive")
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
)
