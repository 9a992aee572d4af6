// Package catalog loads suggestion catalogs from a directory tree of JSON files.
package catalog

import "fmt"

// LoadError represents a fatal error reading the catalog root
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RecordError represents a single rejected catalog record
type RecordError struct {
	File    string
	Index   int
	ID      string
	Message string
	Cause   error
}

func (e *RecordError) Error() string {
	where := fmt.Sprintf("%s[%d]", e.File, e.Index)
	if e.ID != "" {
		where = fmt.Sprintf("%s (%s)", where, e.ID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("record error: %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("record error: %s: %s", where, e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
