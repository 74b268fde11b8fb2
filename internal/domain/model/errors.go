package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidSeason = errors.New("invalid season")
)
