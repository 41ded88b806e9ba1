package poller

import "errors"

var (
	ErrMissingDependency = errors.New("poller dependency is required")
	ErrLoadStatus        = errors.New("cycle aborted: status document unavailable")
	ErrListDevices       = errors.New("cycle aborted: device list unavailable")
	ErrSaveStatus        = errors.New("cycle failed to persist status")
	ErrInvalidReading    = errors.New("device returned an unusable reading")
	ErrNotify            = errors.New("notification failed")
	ErrHistory           = errors.New("history write failed")
)
