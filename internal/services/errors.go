package services

import "errors"

// ErrValidation is wrapped into every input-rejection error so handlers can
// map the whole family to HTTP 400 with errors.Is.
var ErrValidation = errors.New("validation failed")
