package rates

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("unable to parse row")
	ErrMalformedRow  = errors.New("malformed row")
	ErrInvalidRange  = errors.New("start date is after end date")
	ErrNoValidOffers = errors.New("no valid cash sell offers")
)

// CollaboratorError wraps a failure of an external collaborator
// (rate source, place search, generative text)
type CollaboratorError struct {
	Err  error
	Name string
}

// NewCollaboratorError wraps the error for the named collaborator
func NewCollaboratorError(name string, err error) *CollaboratorError {
	return &CollaboratorError{
		Name: name,
		Err:  err,
	}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Name, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
