package store

import "errors"

// ErrNotFound is returned by the single-row lookups when no row
// matches the given primary key.
var ErrNotFound = errors.New("store: no matching row")

// ErrStorage wraps any underlying database/sql failure. Nothing
// retries it: callers surface it as is, and the blocks command stops
// its run on it.
var ErrStorage = errors.New("store: persistence failure")
