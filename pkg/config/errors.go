package config

import "errors"

var (
	ErrReadFile        = errors.New("failed to read file")
	ErrUnmarshalFile   = errors.New("failed to unmarshal JSON from")
	ErrReadEnvFile     = errors.New("failed to read env file")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrBootstrap       = errors.New("failed to bootstrap data directory")
	ErrReadList        = errors.New("failed to read list")
)
