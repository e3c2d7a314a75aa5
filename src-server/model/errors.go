package model

import "errors"

var (
	ErrNotFound       = errors.New("event not found")
	ErrDuplicateTitle = errors.New("an event with this title already exists")
	ErrInvalidData    = errors.New("invalid event data")
)
