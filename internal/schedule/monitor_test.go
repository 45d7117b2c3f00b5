package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	n atomic.Int32
}

func (c *countingSweeper) Sweep() { c.n.Add(1) }

func TestMonitor_SweepsOnInterval(t *testing.T) {
	sw := &countingSweeper{}
	m, err := NewMonitor(20*time.Millisecond, sw)
	require.NoError(t, err)

	m.Start()
	t.Cleanup(func() { _ = m.Stop() })

	require.Eventually(t, func() bool { return sw.n.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestMonitor_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewMonitor(0, &countingSweeper{})
	assert.Error(t, err)
}
