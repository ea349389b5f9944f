package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is any non-success answer from the service.
type APIError struct {
	StatusCode int

	// Message is the "error" string. Empty for field-level validation errors.
	Message string

	// Fields holds validation messages keyed by request field.
	Fields map[string][]string

	Detail      string
	WaitSeconds int
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("authsdk: %d %s", e.StatusCode, e.Message)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return fmt.Sprintf("authsdk: %d %s", e.StatusCode, strings.Join(parts, "; "))
}

func (e *APIError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
func (e *APIError) Forbidden() bool    { return e.StatusCode == http.StatusForbidden }
func (e *APIError) Throttled() bool    { return e.StatusCode == http.StatusTooManyRequests }

// parseErrorResponse turns an error body into *APIError. The "error" key is
// either a string or a field map.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var raw struct {
		Error       json.RawMessage `json:"error"`
		Detail      string          `json:"detail"`
		WaitSeconds int             `json:"wait_seconds"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Error) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	apiErr.Detail = raw.Detail
	apiErr.WaitSeconds = raw.WaitSeconds
	if err := json.Unmarshal(raw.Error, &apiErr.Message); err != nil {
		if err := json.Unmarshal(raw.Error, &apiErr.Fields); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
