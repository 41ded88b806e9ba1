package reolink

import (
	"errors"
	"fmt"
)

var (
	ErrRequest       = errors.New("device request failed")
	ErrStatus        = errors.New("device returned non-2xx status")
	ErrDecode        = errors.New("malformed device response")
	ErrEmptyResponse = errors.New("device response holds no elements")
	ErrDeviceAPI     = errors.New("device API reported an error")
	ErrMissingField  = errors.New("device response is missing a field")
)

// DeviceError wraps a fetch failure with the operation and device address.
type DeviceError struct {
	Op      string
	Address string
	Wrapped error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("reolink %s failed for device %s: %v", e.Op, e.Address, e.Wrapped)
}

func (e *DeviceError) Unwrap() error {
	return e.Wrapped
}
