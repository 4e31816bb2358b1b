package ui

import (
	"fmt"

	"github.com/youssefsiam38/storefront"
)

// ErrInvalidConfig indicates invalid configuration.
var ErrInvalidConfig = fmt.Errorf("ui: %w", storefront.ErrInvalidConfig)
