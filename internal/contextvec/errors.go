package contextvec

import (
	"fmt"

	"github.com/jonathan/context-suggester/internal/features"
)

// ConflictError reports two vectorizers assigning the same key or claiming the same group.
// It indicates a logic bug, never bad user data.
type ConflictError struct {
	Key    features.Key
	Group  features.Group
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("assembly conflict: key %s assigned by both %s and %s", e.Key, e.First, e.Second)
	}
	return fmt.Sprintf("assembly conflict: group %s claimed by both %s and %s", e.Group, e.First, e.Second)
}

// AssemblyError reports an invalid partial mapping.
type AssemblyError struct {
	Source  string
	Key     features.Key
	Message string
}

func (e *AssemblyError) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("assembly error: %s: %s: %s", e.Source, e.Key, e.Message)
	case e.Source != "":
		return fmt.Sprintf("assembly error: %s: %s", e.Source, e.Message)
	default:
		return fmt.Sprintf("assembly error: %s", e.Message)
	}
}
