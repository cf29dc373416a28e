package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

func newBackOff(ctx context.Context, policy Policy) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = policy.InitialInterval
	exp.MaxInterval = policy.MaxInterval
	exp.Multiplier = policy.Multiplier
	exp.MaxElapsedTime = policy.MaxElapsedTime

	var b backoff.BackOff = exp
	b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))
	return backoff.WithContext(b, ctx)
}
