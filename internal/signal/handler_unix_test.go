//go:build !windows

package signal

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_RealSignal(t *testing.T) {
	h := NewHandler(context.Background(), syscall.SIGUSR2)
	defer h.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR2))

	<-h.Context().Done()
	assert.Equal(t, syscall.SIGUSR2, h.Received())
}
