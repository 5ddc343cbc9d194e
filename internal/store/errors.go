package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a product id is absent so HTTP handlers
// can respond with 404.
var ErrNotFound = errors.New("product not found")

// PersistError wraps a backend write failure. The in-memory state is
// already updated when this surfaces; the caller decides whether to
// retry the mutation (last writer wins under the single-writer model).
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist catalog (%s): %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
