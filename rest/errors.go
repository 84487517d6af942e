package rest

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrForbidden marks the platform's permission-denied failure class.
// Callers branch on it with errors.Is; it is the signal that a delete
// should fall back to the interaction-token path.
var ErrForbidden = errors.New("forbidden")

// APIError is a non-2xx response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Is matches ErrForbidden for 403 responses, so the fallback branch is an
// ordinary conditional instead of exception-driven control flow.
func (e *APIError) Is(target error) bool {
	return target == ErrForbidden && e.Status == http.StatusForbidden
}
