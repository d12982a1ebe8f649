package pinstore

import (
	"fmt"
)

// StorageError reports a failure of the underlying pin storage.
type StorageError struct {
	Op  string // Op is the storage operation that failed: "load", "save" or "clear".
	Err error  // Err is the error returned by the storage backend.
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("pin storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *StorageError) Unwrap() error {
	return e.Err
}
