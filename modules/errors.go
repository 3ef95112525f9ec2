package modules

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCircularImport is the cause of an ImportError for a module imported
// while its own initializer is still running
var ErrCircularImport = errors.New("circular import")

// ImportError is returned when a module is not registered, or its
// initializer failed
type ImportError struct {
	Name string
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error importing module %q: %s", e.Name, e.Err)
	}
	return fmt.Sprintf("no module named %q", e.Name)
}

// Unwrap returns the initializer's error, if any
func (e *ImportError) Unwrap() error {
	return e.Err
}

// AttributeError is returned when an attribute lookup fails
type AttributeError struct {
	Object interface{}
	Name   string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%v has no attribute %q", e.Object, e.Name)
}
