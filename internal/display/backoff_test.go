package display

import (
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestReconnectBackOff_DoublesThenStops(t *testing.T) {
	b := newReconnectBackOff(time.Second, 4)

	var got []time.Duration
	for d := b.NextBackOff(); d != backoff.Stop; d = b.NextBackOff() {
		got = append(got, d)
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, got)
	assert.Equal(t, backoff.Stop, b.NextBackOff(), "stays stopped")

	b.Reset()
	assert.Equal(t, time.Second, b.NextBackOff())
}

func TestReconnectBackOff_TenAttempts(t *testing.T) {
	b := newReconnectBackOff(time.Second, 10)
	prev := time.Duration(0)
	for i := 1; i <= 10; i++ {
		d := b.NextBackOff()
		assert.Equal(t, time.Second*time.Duration(1<<(i-1)), d)
		assert.Greater(t, d, prev)
		prev = d
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}
