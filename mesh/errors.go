package mesh

import (
	"errors"
	"fmt"
)

// ErrGeometry is the sentinel matched by every geometry validation failure.
var ErrGeometry = errors.New("mesh: invalid geometry")

// GeometryError locates a validation failure on a single panel. Panel is -1
// when the failure concerns the mesh as a whole.
type GeometryError struct {
	Panel  int
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Panel < 0 {
		return fmt.Sprintf("mesh: invalid geometry: %s", e.Reason)
	}
	return fmt.Sprintf("mesh: invalid geometry at panel %d: %s", e.Panel, e.Reason)
}

func (e *GeometryError) Unwrap() error { return ErrGeometry }

func geometryErrorf(panel int, format string, args ...interface{}) error {
	return &GeometryError{Panel: panel, Reason: fmt.Sprintf(format, args...)}
}
