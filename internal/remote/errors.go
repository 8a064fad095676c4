package remote

import "fmt"

// StatusError is a non-success HTTP answer from a collaborator.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: returned %d", e.Service, e.StatusCode)
}

// MalformedError is a success answer whose body could not be understood.
type MalformedError struct {
	Service string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Service, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
