package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateID      = errors.New("duplicate card id")
	ErrDuplicateDrop    = errors.New("card already in container")
	ErrUnknownContainer = errors.New("unknown container")
	ErrUnresolvableCard = errors.New("card cannot be resolved")
	ErrCardInFlight     = errors.New("card is being dragged")
)
