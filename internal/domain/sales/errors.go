package sales

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEntryNotFound = errors.New("sales entry not found")

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Reason)
	}
	return "invalid sales entry: " + strings.Join(parts, "; ")
}

// StorageError wraps any failure reported by a storage backend.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage returns nil for a nil err and leaves ErrEntryNotFound and
// existing StorageErrors untouched.
func WrapStorage(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEntryNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Backend: backend, Op: op, Err: err}
}
