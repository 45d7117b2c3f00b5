package display

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newReconnectBackOff yields base, 2*base, 4*base, ... for maxAttempts
// reconnects and backoff.Stop afterwards. There is no jitter and no
// elapsed-time cutoff.
func newReconnectBackOff(base time.Duration, maxAttempts int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = base
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Duration(math.MaxInt64)
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(maxAttempts))
}
