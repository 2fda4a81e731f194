package models

import "errors"

// Custom errors
var (
	ErrTeamNotFound = errors.New("team not found")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidID    = errors.New("invalid ID format")
)
