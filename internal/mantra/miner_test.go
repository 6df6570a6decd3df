package mantra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiner_Counts(t *testing.T) {
	m := NewMiner(time.Millisecond)
	assert.Zero(t, m.Count())

	m.Start(context.Background())
	m.Start(context.Background())
	assert.Eventually(t, func() bool { return m.Count() >= 3 }, time.Second, time.Millisecond)
	m.Stop()

	stopped := m.Count()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, m.Count())
}

func TestMiner_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMiner(time.Millisecond)
	m.Start(ctx)
	cancel()
	m.Stop()
	m.Stop()
}

func TestMiner_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewMiner(0).interval)
}

func TestFixed(t *testing.T) {
	var s Source = Fixed(42)
	assert.Equal(t, int64(42), s.Count())
}
