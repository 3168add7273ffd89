package docmodel

import (
	"errors"
	"fmt"
)

// ErrMalformedMetadata reports a descriptor missing a required field. The
// whole build aborts; a partially valid site is worse than none.
var ErrMalformedMetadata = errors.New("malformed metadata")

// CollisionError reports two entities of the same kind colliding on name
// within the same owner.
type CollisionError struct {
	Module string
	Owner  string // non-empty for constructor collisions: the owning type
	Kind   string
	Name   string
}

func (e *CollisionError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("name collision: %s %q declared twice in %s.%s", e.Kind, e.Name, e.Module, e.Owner)
	}
	return fmt.Sprintf("name collision: %s %q declared twice in module %s", e.Kind, e.Name, e.Module)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMetadata, fmt.Sprintf(format, args...))
}
