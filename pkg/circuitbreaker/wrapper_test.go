package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txnsense/internal/config"
)

func TestExecute_PassesResultThrough(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-pass"))

	got, err := Execute(context.Background(), w, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	cfg, ok := FromSettings("test-open", config.CircuitBreakerConfig{
		Enabled:      true,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	})
	require.True(t, ok)
	w := NewWrapper(cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_, err := Execute(context.Background(), w, func(ctx context.Context) (string, error) {
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
	}

	assert.True(t, w.IsOpen())

	calls := 0
	_, err := Execute(context.Background(), w, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	assert.Error(t, err)
	assert.Zero(t, calls)
}

func TestExecute_CanceledContext(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-cancel"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, w, func(ctx context.Context) (int, error) {
		t.Fatal("fn must not run")
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromSettings_Disabled(t *testing.T) {
	_, ok := FromSettings("x", config.CircuitBreakerConfig{Enabled: false})
	assert.False(t, ok)
}
