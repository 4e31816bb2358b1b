package service

import (
	"fmt"

	"github.com/youssefsiam38/storefront"
)

// Service package errors.
var (
	// ErrProductNotFound indicates the backend has no product with the given ID.
	ErrProductNotFound = fmt.Errorf("service: product %w", storefront.ErrNotFound)
)
