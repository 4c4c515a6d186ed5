package usecase

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
)

// RetryPolicy controls how long and how often the output file is polled
type RetryPolicy struct {
	// Initial is the first sleep between attempts
	Initial time.Duration
	// Multiplier grows the sleep after every attempt
	Multiplier float64
	// Max caps a single sleep
	Max time.Duration
	// Grace is added to the capture timeout to form the polling deadline
	Grace time.Duration
}

// DefaultRetryPolicy starts at 100ms, grows by 1.5x up to 1s, and allows
// 5s past the capture timeout
var DefaultRetryPolicy = RetryPolicy{
	Initial:    100 * time.Millisecond,
	Multiplier: 1.5,
	Max:        time.Second,
	Grace:      5 * time.Second,
}

func (p RetryPolicy) next(d time.Duration) time.Duration {
	n := time.Duration(float64(d) * p.Multiplier)
	if n > p.Max {
		return p.Max
	}
	return n
}

// readFunc reads the captured page. os.ReadFile outside of tests.
type readFunc func(path string) ([]byte, error)

// errNoOutput is returned by awaitOutput when the deadline passes
var errNoOutput = errors.New("no readable output before deadline")

// awaitOutput reads path once it exists and is readable. Missing files and
// permission errors are retried until deadline; other errors end polling.
func awaitOutput(ctx context.Context, clock interfaces.Clock, policy RetryPolicy, read readFunc, path string, deadline time.Time) ([]byte, error) {
	delay := policy.Initial

	for {
		content, err := read(path)
		if err == nil {
			return content, nil
		}
		if !isTransient(err) {
			return nil, goerr.Wrap(err, "failed to read captured page", goerr.V("path", path))
		}

		now := clock.Now()
		if !now.Before(deadline) {
			return nil, errNoOutput
		}

		wait := min(delay, deadline.Sub(now))
		if err := clock.Sleep(ctx, wait); err != nil {
			return nil, goerr.Wrap(err, "polling for captured page interrupted", goerr.V("path", path))
		}
		delay = policy.next(delay)
	}
}

func isTransient(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
