package playback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/discolinks/discolinks"
	"github.com/discolinks/discolinks/internal/constants"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Source issues a single, unclassified playback lookup. *discolinks.Client implements it.
type Source interface {
	FetchPlaybackLink(ctx context.Context, episodeID string) (*discolinks.RawResponse, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Fetcher. Zero values use the defaults (6 attempts, 5s base delay, real sleep).
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       SleepFunc
	Logger      *log.Logger
}

// Fetcher resolves playback links, retrying only on HTTP 429 with linear backoff.
type Fetcher struct {
	source      Source
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
	logger      *log.Logger
}

// Result describes a finished lookup. Attempts and Waited are filled on failure too.
type Result struct {
	Link     string
	Attempts int           // Requests issued, at most MaxAttempts+1
	Waited   time.Duration // Total backoff slept
}

// NewFetcher creates a Fetcher on top of source.
func NewFetcher(source Source, opts Options) *Fetcher {
	f := &Fetcher{
		source:      source,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		sleep:       opts.Sleep,
		logger:      opts.Logger,
	}
	if f.maxAttempts <= 0 {
		f.maxAttempts = constants.DefaultMaxAttempts
	}
	if f.baseDelay <= 0 {
		f.baseDelay = constants.DefaultBaseDelay
	}
	if f.sleep == nil {
		f.sleep = Sleep
	}
	if f.logger == nil {
		f.logger = log.New()
		f.logger.SetOutput(os.Stderr)
	}
	return f
}

// MaxAttempts returns the retry budget in use.
func (f *Fetcher) MaxAttempts() int { return f.maxAttempts }

// Fetch resolves the playback link of episodeID.
//
// Transitions: transport failure ends with ErrConnection; 429 sleeps (n+1)*BaseDelay and
// tries again while n < MaxAttempts, then ends with ErrRateLimited; any other non-200 ends
// with *HTTPError; 200 without a streaming URL ends with ErrMalformedResponse.
func (f *Fetcher) Fetch(ctx context.Context, episodeID string) (Result, error) {
	var result Result
	entry := f.logger.WithField("episode_id", episodeID)

	for n := 0; ; n++ {
		resp, err := f.source.FetchPlaybackLink(ctx, episodeID)
		result.Attempts = n + 1
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			if errors.Is(err, coreErrors.ErrConnection) {
				return result, err
			}
			return result, fmt.Errorf("%w: %v", coreErrors.ErrConnection, err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			link, err := discolinks.ParsePlaybackLink(resp.Body)
			if err != nil {
				return result, err
			}
			result.Link = link
			return result, nil

		case http.StatusTooManyRequests:
			if n >= f.maxAttempts {
				return result, fmt.Errorf("%w: gave up after %d requests", coreErrors.ErrRateLimited, result.Attempts)
			}
			wait := time.Duration(n+1) * f.baseDelay
			entry.WithFields(log.Fields{"attempt": n + 1, "wait": wait}).
				Warnf("Rate limited, %s retry in %s", humanize.Ordinal(n+1), wait)
			if err := f.sleep(ctx, wait); err != nil {
				return result, err
			}
			result.Waited += wait

		default:
			return result, coreErrors.NewHTTPError(resp.StatusCode, resp.Body)
		}
	}
}

// Sleep blocks for d unless ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
