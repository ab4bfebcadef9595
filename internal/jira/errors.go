package jira

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the tracker answered 404.
	ErrNotFound = errors.New("not found")

	// ErrNoIssueType indicates create metadata had no entry for the
	// requested project and issue type.
	ErrNoIssueType = errors.New("issue type not available in project")
)

// APIError is a non-2xx tracker response. Messages collects both the
// general error messages and the per-field errors the tracker reported.
type APIError struct {
	Status   int
	Messages []string
}

// Error implements error.
func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("tracker returned status %d", e.Status)
	}
	return fmt.Sprintf("tracker returned status %d: %s", e.Status, strings.Join(e.Messages, "; "))
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (b errorBody) messages() []string {
	out := append([]string(nil), b.ErrorMessages...)
	keys := make([]string, 0, len(b.Errors))
	for k := range b.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+": "+b.Errors[k])
	}
	return out
}
