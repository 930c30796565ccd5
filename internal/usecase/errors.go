package usecase

import "errors"

var (
	ErrSessionRequired = errors.New("authentication required")
	ErrForbidden       = errors.New("you don't have permission to perform this action")
)
