package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string { return f.name }

func (f fakeChecker) Check(context.Context) error { return f.err }

func TestCheckerRegistry_Check(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name     string
		critical []fakeChecker
		optional []fakeChecker
		want     Status
	}{
		{
			name: "no checkers",
			want: StatusHealthy,
		},
		{
			name:     "all up",
			critical: []fakeChecker{{name: "postgresql"}},
			optional: []fakeChecker{{name: "redis"}, {name: "kafka"}},
			want:     StatusHealthy,
		},
		{
			name:     "optional down degrades",
			critical: []fakeChecker{{name: "postgresql"}},
			optional: []fakeChecker{{name: "redis", err: down}},
			want:     StatusDegraded,
		},
		{
			name:     "critical down is unhealthy",
			critical: []fakeChecker{{name: "mongodb", err: down}},
			optional: []fakeChecker{{name: "kafka", err: down}},
			want:     StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCheckerRegistry()
			for _, c := range tt.critical {
				r.Register(c)
			}
			for _, c := range tt.optional {
				r.RegisterOptional(c)
			}

			h := r.Check(context.Background())
			assert.Equal(t, tt.want, h.Status)
			assert.Len(t, h.Checks, len(tt.critical)+len(tt.optional))
			for _, c := range append(tt.critical, tt.optional...) {
				if c.err != nil {
					assert.Equal(t, StatusUnhealthy, h.Checks[c.name].Status)
					assert.Contains(t, h.Checks[c.name].Message, "connection refused")
				} else {
					assert.Equal(t, StatusHealthy, h.Checks[c.name].Status)
				}
			}
		})
	}
}

func TestKafkaChecker_NoBrokers(t *testing.T) {
	err := NewKafkaChecker(nil).Check(context.Background())
	assert.Error(t, err)
}
