package signals

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithSignals(t *testing.T) {
	t.Run("cancels on signal", func(t *testing.T) {
		ctx := WithSignals(context.Background(), syscall.SIGUSR1)
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context was not canceled by signal")
		}
	})

	t.Run("cancels with parent", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		ctx := WithSignals(parent, syscall.SIGUSR2)
		cancel()

		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context was not canceled with parent")
		}
	})
}
