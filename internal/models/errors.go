package models

import "errors"

// Sentinel errors shared by repositories, services and handlers. Wrap with
// fmt.Errorf("%w: ...") and match with errors.Is at the HTTP boundary.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("resource not found")
	ErrConfiguration = errors.New("configuration error")
	ErrUpstream      = errors.New("upstream failure")
)
