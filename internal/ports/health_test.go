package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                  { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

type slowChecker struct{ name string }

func (s slowChecker) Name() string { return s.name }

func (s slowChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func TestRegister(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(stubChecker{name: "store"}))

	err := registry.Register(stubChecker{name: "store"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "store")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		want     HealthStatus
		failing  string
	}{
		{name: "empty registry", want: HealthStatusHealthy},
		{
			name:     "all healthy",
			checkers: []HealthChecker{stubChecker{name: "store"}, stubChecker{name: "quotable"}},
			want:     HealthStatusHealthy,
		},
		{
			name: "one failing",
			checkers: []HealthChecker{
				stubChecker{name: "store", err: errors.New("database is locked")},
				stubChecker{name: "quotable"},
			},
			want:    HealthStatusUnhealthy,
			failing: "store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			require.NotNil(t, result)
			assert.Equal(t, tt.want, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
			assert.False(t, result.Timestamp.IsZero())

			for name, check := range result.Checks {
				if name == tt.failing {
					assert.Equal(t, HealthStatusUnhealthy, check.Status)
					assert.NotEmpty(t, check.Message)

					continue
				}

				assert.Equal(t, HealthStatusHealthy, check.Status)
				assert.Empty(t, check.Message)
			}
		})
	}
}

func TestCheckAll_CancelledContext(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(slowChecker{name: "store"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["store"].Message, "context canceled")
}
