package repository

import "errors"

// ErrNotFound is returned when a queried record does not exist.
// Callers use it to distinguish "no data" from a storage failure.
var ErrNotFound = errors.New("record not found")
