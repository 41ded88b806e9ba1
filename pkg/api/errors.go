package api

import "errors"

var (
	ErrInvalidLimit    = errors.New("limit must be a positive integer")
	ErrHistoryDisabled = errors.New("history is not enabled")
	ErrSourceRequired  = errors.New("status source is required")
)
