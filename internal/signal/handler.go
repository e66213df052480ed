// Package signal turns SIGINT and SIGTERM into context cancellation for
// taskcycle commands.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context on the first shutdown signal. A session in
// progress sees the cancellation and ends with its summary.
type Handler struct {
	ctx    context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel context.CancelFunc

	sigs chan os.Signal
	done chan struct{}

	mu       sync.Mutex
	received os.Signal
	stopOnce sync.Once
}

// NewHandler starts listening for sigs, or SIGINT and SIGTERM when none are
// given. Call Stop when the command returns.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := cli.Execute(h.Context(), info)
//	return finish(os.Stderr, err, h.Received())
func NewHandler(parent context.Context, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		sigs:   make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}

	ossignal.Notify(h.sigs, sigs...)
	go h.listen()

	return h
}

// Context returns the context canceled by the first signal.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Received returns the first signal, or nil if none arrived. main reports
// it once the command has returned.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop unregisters the handler and cancels its context. Safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		ossignal.Stop(h.sigs)
		close(h.done)
		h.cancel()
	})
}

// handle records sig and cancels the context. Later signals are ignored.
func (h *Handler) handle(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.received != nil {
		return
	}
	h.received = sig
	h.cancel()
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigs:
			h.handle(sig)
		}
	}
}
