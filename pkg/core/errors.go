package core

import "errors"

var (
	ErrBootstrap    = errors.New("failed to bootstrap data directory")
	ErrOpenHistory  = errors.New("failed to open history database")
	ErrBuildPoller  = errors.New("failed to build poller")
	ErrBuildMonitor = errors.New("failed to build monitor")
	ErrBuildAPI     = errors.New("failed to build API server")
)
