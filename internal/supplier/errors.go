package supplier

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the directory has no supplier matching the name.
var ErrNotFound = errors.New("supplier not found")

// ValidationError rejects input before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LookupError reports that the directory could not be queried.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("supplier lookup %q failed: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
