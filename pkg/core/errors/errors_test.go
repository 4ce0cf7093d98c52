package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, ExitOK},
		{"Usage", fmt.Errorf("%w: accepts 1 arg", ErrUsage), ExitUsage},
		{"InvalidSelection", fmt.Errorf("%w: episode without season", ErrInvalidSelection), ExitUsage},
		{"UnknownRealm", fmt.Errorf("%w %q", ErrUnknownRealm, "x"), ExitUsage},
		{"Connection", fmt.Errorf("could not get token: %w", ErrConnection), ExitConnection},
		{"NotFound", fmt.Errorf("season 3 not found: %w", ErrNotFound), ExitNotFound},
		{"HTTPError", fmt.Errorf("listing: %w", &HTTPError{StatusCode: 500}), ExitHTTPError},
		{"RateLimited", ErrRateLimited, ExitRateLimited},
		{"Malformed", ErrMalformedResponse, ExitMalformed},
		{"Partial", fmt.Errorf("%w: 2 episodes", ErrPartialExport), ExitPartialExport},
		{"Cancelled", context.Canceled, ExitGeneric},
		{"Other", errors.New("boom"), ExitGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	assert.Equal(t, "discolinks: unexpected HTTP status 503", (&HTTPError{StatusCode: 503}).Error())
	assert.Equal(t, "discolinks: unexpected HTTP status 403: denied", (&HTTPError{StatusCode: 403, Body: "denied"}).Error())
}

func TestNewHTTPError(t *testing.T) {
	t.Run("ShortBodyIsTrimmed", func(t *testing.T) {
		err := NewHTTPError(502, []byte("  bad gateway\n"))
		assert.Equal(t, 502, err.StatusCode)
		assert.Equal(t, "bad gateway", err.Body)
	})

	t.Run("LongBodyIsCut", func(t *testing.T) {
		err := NewHTTPError(500, []byte(strings.Repeat("a", 300)))
		assert.Equal(t, strings.Repeat("a", maxBodyLen)+"...", err.Body)
	})

	t.Run("CutKeepsRunesWhole", func(t *testing.T) {
		// "ö" is two bytes; the second one would land on the limit.
		body := strings.Repeat("a", maxBodyLen-1) + "ööö"
		err := NewHTTPError(500, []byte(body))
		assert.True(t, utf8.ValidString(err.Body))
		assert.Equal(t, strings.Repeat("a", maxBodyLen-1)+"...", err.Body)
	})
}
