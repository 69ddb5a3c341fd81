package errors

import "fmt"

// ErrorWithStatusCode is returned when the gateway answers outside the 2xx
// range. Callers that branch on the status (a 404 on delete means the asset
// is already gone) can unwrap it with errors.As.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d", e.StatusCode)
	}
	return e.Message
}
