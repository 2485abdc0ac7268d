package client

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable means the commerce service could not be reached at
// all: DNS, dial or timeout failure before any HTTP response.
var ErrRemoteUnavailable = errors.New("commerce service unavailable")

// RemoteError means the commerce service was reached but rejected the
// request. Message carries the service-supplied text when present.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("commerce API error: %d", e.Status)
}
