package models

import "errors"

// ErrStoreUnavailable wraps record-store read failures. The engine never
// retries; callers are expected to fall back to a cached result or surface
// an explicit unable-to-load state.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")
