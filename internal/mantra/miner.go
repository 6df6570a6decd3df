// Package mantra runs the background mantra counter shown by the
// mantra-count command.
package mantra

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the time it takes to recite one mantra.
const DefaultInterval = 2 * time.Second

// Source is a read-only view of a monotonically non-decreasing counter.
type Source interface {
	Count() int64
}

// Miner increments its counter once per interval until stopped.
type Miner struct {
	interval time.Duration
	count    atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMiner(interval time.Duration) *Miner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Miner{interval: interval}
}

// Start launches the recitation goroutine. Calling Start on a running miner
// is a no-op.
func (m *Miner) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.count.Add(1)
			}
		}
	}(m.done)
}

// Stop halts the goroutine and waits for it to exit.
func (m *Miner) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Miner) Count() int64 {
	return m.count.Load()
}

// Fixed is a Source with a constant value.
type Fixed int64

func (f Fixed) Count() int64 { return int64(f) }
