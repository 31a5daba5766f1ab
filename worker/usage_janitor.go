package worker

import (
	"context"
	"log"
	"time"

	"mailscore/store"
)

// UsageJanitor sweeps usage counters left over from previous UTC days so
// the in-memory store stays bounded across date rollovers.
type UsageJanitor struct {
	Store    *store.MemoryStore
	Logger   *log.Logger
	Interval time.Duration
}

func NewUsageJanitor(s *store.MemoryStore, logger *log.Logger) *UsageJanitor {
	return &UsageJanitor{
		Store:    s,
		Logger:   logger,
		Interval: time.Hour,
	}
}

func (j *UsageJanitor) Start(ctx context.Context) {
	j.Logger.Println("Usage janitor started")

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.Logger.Println("Usage janitor shutting down...")
			return
		case <-ticker.C:
			if removed := j.Store.PurgeStale(); removed > 0 {
				j.Logger.Printf("Purged %d stale usage counters", removed)
			}
		}
	}
}
