package index

import (
	"errors"
	"fmt"
)

// ErrStorage indicates a structural storage fault: a filesystem path could
// not be created, opened or removed. It is the only error class the store
// propagates to callers; absence of an index is a valid empty state and
// per-item batch failures surface only through the Observer.
var ErrStorage = errors.New("storage fault")

// storagef wraps ErrStorage with context so callers can match it with
// errors.Is while still seeing the underlying cause.
func storagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrStorage}, args...)...)
}
