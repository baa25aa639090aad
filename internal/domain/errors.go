package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidText        = errors.New("invalid text")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidFootprint   = errors.New("invalid footprint")
	ErrInvalidBounds      = errors.New("invalid bounds")
	ErrInvalidContainerID = errors.New("invalid container id")
	ErrMalformedPayload   = errors.New("malformed payload")
)
