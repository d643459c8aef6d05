package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrLockHeld        = errors.New("lock already held")
	ErrMarketNotClosed = errors.New("market not closed")
	ErrInvalidDeadline = errors.New("invalid deadline")
)
