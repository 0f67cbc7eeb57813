package repositories

import "errors"

// ErrNotFound is wrapped into lookup failures so callers can test with
// errors.Is instead of matching message text.
var ErrNotFound = errors.New("not found")

// ErrAlreadyProcessed reports that a webhook event ID was seen before and
// its side effects must not be reapplied.
var ErrAlreadyProcessed = errors.New("event already processed")
