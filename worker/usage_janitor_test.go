package worker

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mailscore/store"
)

func TestUsageJanitor_StopsOnCancel(t *testing.T) {
	j := NewUsageJanitor(store.NewMemoryStore(), log.New(io.Discard, "", 0))
	j.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	// Let a few ticks fire against an empty store, then shut down
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "janitor did not stop after context cancellation")
	}
}
