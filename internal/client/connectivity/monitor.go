// Package connectivity maintains the online/offline fact every sync policy
// consults. The state is a best-effort sample: a host can look online while
// the backend is unreachable, so remote calls still handle failure
// themselves instead of trusting this signal.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avolkovs/tillpoint/internal/logging"
)

// Pinger probes backend liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// probeTimeout bounds a single liveness probe.
const probeTimeout = 3 * time.Second

// Monitor samples connectivity periodically and on demand.
type Monitor struct {
	pinger Pinger
	log    logging.Logger

	online atomic.Bool

	mu      sync.Mutex
	onUp    []func(ctx context.Context)
	started bool
}

// NewMonitor returns a Monitor that starts in the offline state until the
// first probe (or SetOnline) says otherwise.
func NewMonitor(p Pinger, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.Nop{}
	}
	return &Monitor{pinger: p, log: log}
}

// IsOnline returns the last sampled connectivity state.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// OnOnline registers a hook fired on every offline→online transition. Hooks
// run sequentially on the watcher goroutine; the replay drain registers
// itself here.
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUp = append(m.onUp, fn)
}

// SetOnline records an explicit transition (e.g. the UI layer's own online/
// offline events) and fires hooks when coming up.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	prev := m.online.Swap(online)
	if prev == online {
		return
	}
	if online {
		m.log.Info(ctx, "switched to online mode")
		m.fireHooks(ctx)
	} else {
		m.log.Info(ctx, "switched to offline mode")
	}
}

func (m *Monitor) fireHooks(ctx context.Context) {
	m.mu.Lock()
	hooks := make([]func(ctx context.Context), len(m.onUp))
	copy(hooks, m.onUp)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Probe samples connectivity once, right now.
func (m *Monitor) Probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.pinger.Ping(pctx)
	cancel()
	m.SetOnline(ctx, err == nil)
}

// Start probes on the given interval until ctx is cancelled. Call from its
// own goroutine.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
