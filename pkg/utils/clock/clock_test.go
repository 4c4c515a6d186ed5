package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pagecap/pkg/utils/clock"
)

func TestReal_Sleep(t *testing.T) {
	c := clock.New()

	t.Run("sleeps", func(t *testing.T) {
		start := c.Now()
		gt.NoError(t, c.Sleep(context.Background(), 20*time.Millisecond))
		gt.True(t, c.Now().Sub(start) >= 20*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		gt.Error(t, c.Sleep(ctx, time.Hour))
	})

	t.Run("non-positive returns at once", func(t *testing.T) {
		gt.NoError(t, c.Sleep(context.Background(), 0))
	})
}
