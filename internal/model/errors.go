package model

import "errors"

// Common errors used across the application
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrChannelNotFound = errors.New("channel not found")
)
