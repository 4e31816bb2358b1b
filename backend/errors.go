package backend

import (
	"errors"
	"fmt"

	"github.com/youssefsiam38/storefront"
)

// Errors returned before a request is sent.
var (
	// ErrMissingID is returned when a product ID is empty.
	ErrMissingID = fmt.Errorf("%w: product id is required", storefront.ErrValidation)

	// ErrStarsOutOfRange is returned for a star filter outside 1 to 5.
	ErrStarsOutOfRange = fmt.Errorf("%w: stars must be between 1 and 5", storefront.ErrValidation)
)

// TransportError wraps a failure to reach the backend or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
