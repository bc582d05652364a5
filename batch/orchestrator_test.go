package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/lexingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func TestRunPreservesInputOrder(t *testing.T) {
	o := newTestOrchestrator(t, WithPoolSize(4))

	inputs := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	outcomes := Run(context.Background(), o, inputs, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (string, error) {
			// Later inputs finish earlier to exercise out-of-order completion.
			time.Sleep(time.Duration(len(inputs)-strings.Index("abcdefgh", input)) * time.Millisecond)
			return strings.ToUpper(input), nil
		})

	require.Len(t, outcomes, len(inputs))
	for i, out := range outcomes {
		require.False(t, out.Failed())
		assert.Equal(t, strings.ToUpper(inputs[i]), out.Value)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	o := newTestOrchestrator(t, WithPoolSize(2))

	inputs := []string{"ok-1", "missing", "ok-2"}
	outcomes := Run(context.Background(), o, inputs, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (int, error) {
			if input == "missing" {
				return 0, errors.New("no such file")
			}
			return len(input), nil
		})

	require.Len(t, outcomes, 3)

	assert.False(t, outcomes[0].Failed())
	assert.Equal(t, 4, outcomes[0].Value)

	require.True(t, outcomes[1].Failed())
	assert.Equal(t, "missing", outcomes[1].Err.SourceLocator)
	assert.Equal(t, core.ErrorKindExtraction, outcomes[1].Err.Kind)
	assert.Contains(t, outcomes[1].Err.Message, "no such file")

	assert.False(t, outcomes[2].Failed())
}

func TestRunRecoversPanics(t *testing.T) {
	o := newTestOrchestrator(t)

	outcomes := Run(context.Background(), o, []string{"boom"}, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (string, error) {
			panic("corrupt state")
		})

	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Failed())
	assert.Equal(t, core.ErrorKindPanic, outcomes[0].Err.Kind)
	assert.Contains(t, outcomes[0].Err.Message, "corrupt state")
}

func TestRunCancelledContext(t *testing.T) {
	o := newTestOrchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []string{"a", "b", "c"}
	var calls atomic.Int32
	outcomes := Run(ctx, o, inputs, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (string, error) {
			calls.Add(1)
			return input, nil
		})

	require.Len(t, outcomes, 3)
	for _, out := range outcomes {
		require.True(t, out.Failed())
		assert.Equal(t, core.ErrorKindCancelled, out.Err.Kind)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestRunOpContextErrorBecomesCancelled(t *testing.T) {
	o := newTestOrchestrator(t)

	outcomes := Run(context.Background(), o, []string{"slow"}, core.ErrorKindChunking, Locator,
		func(ctx context.Context, input string) (string, error) {
			return "", fmt.Errorf("embedding call: %w", context.DeadlineExceeded)
		})

	require.True(t, outcomes[0].Failed())
	assert.Equal(t, core.ErrorKindCancelled, outcomes[0].Err.Kind)
}

func TestRunEmptyInputs(t *testing.T) {
	o := newTestOrchestrator(t)

	outcomes := Run(context.Background(), o, nil, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (string, error) {
			return input, nil
		})
	assert.Empty(t, outcomes)
}

func TestRunLargeBatchSmallPool(t *testing.T) {
	o := newTestOrchestrator(t, WithPoolSize(1))

	inputs := make([]string, 50)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("item-%02d", i)
	}

	outcomes := Run(context.Background(), o, inputs, core.ErrorKindExtraction, Locator,
		func(ctx context.Context, input string) (string, error) {
			return input, nil
		})

	require.Len(t, outcomes, 50)
	for i, out := range outcomes {
		require.False(t, out.Failed())
		assert.Equal(t, inputs[i], out.Value)
	}
}
