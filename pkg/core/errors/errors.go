package errors

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Standard API-related errors
var (
	ErrConnection        = errors.New("discolinks: connection error (no usable response)")
	ErrNotFound          = errors.New("discolinks: resource not found")
	ErrRateLimited       = errors.New("discolinks: rate limit exceeded, retries exhausted")
	ErrMalformedResponse = errors.New("discolinks: response is missing expected fields")

	// Application/Flow specific errors
	ErrUsage            = errors.New("invalid usage")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnknownRealm     = errors.New("discolinks: unknown realm")
	ErrPartialExport    = errors.New("export: some episodes could not be resolved")
)

// HTTPError reports an unexpected status code (anything but 200 and 429).
type HTTPError struct {
	StatusCode int
	Body       string
}

// maxBodyLen caps how much of a response body ends up in an HTTPError.
const maxBodyLen = 256

// NewHTTPError builds an HTTPError for status, keeping at most maxBodyLen bytes of
// the trimmed body. The cut never splits a UTF-8 sequence.
func NewHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: status, Body: truncate(strings.TrimSpace(string(body)), maxBodyLen)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("discolinks: unexpected HTTP status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("discolinks: unexpected HTTP status %d", e.StatusCode)
}

// Process exit codes, one per failure class.
const (
	ExitOK            = 0
	ExitGeneric       = 1
	ExitUsage         = 2
	ExitConnection    = 3
	ExitNotFound      = 4
	ExitHTTPError     = 5
	ExitRateLimited   = 6
	ExitMalformed     = 7
	ExitPartialExport = 8
)

// ExitCode maps an error returned by a run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var httpErr *HTTPError
	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrUnknownRealm):
		return ExitUsage
	case errors.Is(err, ErrPartialExport):
		return ExitPartialExport
	case errors.Is(err, ErrConnection):
		return ExitConnection
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrRateLimited):
		return ExitRateLimited
	case errors.Is(err, ErrMalformedResponse):
		return ExitMalformed
	case errors.As(err, &httpErr):
		return ExitHTTPError
	}
	return ExitGeneric
}
