package document

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTitle   = errors.New("Missing title property")
	ErrInvalidExtents = errors.New("region.extents must be a list of four numbers (left, bottom, right, top)")
)

// MissingTitleError is returned when a variable or service entry has neither a title nor a name.
type MissingTitleError struct {
	Path  string
	Index int
}

func (e *MissingTitleError) Error() string {
	return fmt.Sprintf("%s.%d is missing a title", e.Path, e.Index)
}

// UnknownVariableError is returned when a service entry's title does not match any dataset variable.
type UnknownVariableError struct {
	Service Service
	Title   string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("%s entry %q does not match any dataset variable", e.Service, e.Title)
}

// AmbiguousVariableError is returned when a service entry's title matches more than one dataset variable.
type AmbiguousVariableError struct {
	Service Service
	Title   string
}

func (e *AmbiguousVariableError) Error() string {
	return fmt.Sprintf("%s entry %q matches more than one dataset variable", e.Service, e.Title)
}

// InvalidEntryError is returned when a typed service record fails validation.
type InvalidEntryError struct {
	Service Service
	Title   string
	Reason  string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("Invalid %s entry %q, %s", e.Service, e.Title, e.Reason)
}
