package selector

import (
	"sync"

	"github.com/mrz1836/taskcycle/internal/domain"
)

// Locked serializes access to an Engine so several goroutines of one
// session can share it. The engine itself performs no locking.
type Locked struct {
	mu     sync.Mutex
	engine *Engine
}

// Ensure both iterators satisfy Selector.
var (
	_ Selector = (*Engine)(nil)
	_ Selector = (*Locked)(nil)
)

// NewLocked wraps e. Callers must not use e directly afterwards.
func NewLocked(e *Engine) *Locked {
	return &Locked{engine: e}
}

// Next implements Selector.
func (l *Locked) Next() domain.Descriptor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Next()
}

// LastTransition is the synchronized form of Engine.LastTransition.
func (l *Locked) LastTransition(label string) (domain.Transition, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.LastTransition(label)
}

// Axes is the synchronized form of Engine.Axes.
func (l *Locked) Axes() []AxisState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Axes()
}

// Rewind is the synchronized form of Engine.Rewind.
func (l *Locked) Rewind(label string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Rewind(label)
}
