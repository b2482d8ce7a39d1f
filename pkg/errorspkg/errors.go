// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal hides unexpected failures from API clients. The underlying
// cause is logged where it happens.
var ErrInternal = errors.New("internal error")
