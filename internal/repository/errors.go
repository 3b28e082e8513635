package repository

import "errors"

// ErrNotFound indicates the requested note does not exist or is not visible
// to the caller.
var ErrNotFound = errors.New("repository: not found")
