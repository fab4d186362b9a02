package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrAuthentication      = errors.New("notification authentication failed")
	ErrDuplicateOperation  = errors.New("duplicate operation")
)
