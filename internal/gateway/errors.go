package gateway

import (
	"fmt"
	"strings"
)

type ErrorItem struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// APIError is a rejection reported by the gateway itself (4xx with an
// error envelope).
type APIError struct {
	StatusCode int
	Errors     []ErrorItem
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, strings.Join(e.Descriptions(), "; "))
}

// Descriptions flattens the gateway's error descriptions for surfacing
// to callers.
func (e *APIError) Descriptions() []string {
	out := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if item.Description != "" {
			out = append(out, item.Description)
		} else if item.Code != "" {
			out = append(out, item.Code)
		}
	}
	return out
}

// HasCode reports whether the gateway flagged the given error code.
func (e *APIError) HasCode(code string) bool {
	for _, item := range e.Errors {
		if item.Code == code {
			return true
		}
	}
	return false
}
