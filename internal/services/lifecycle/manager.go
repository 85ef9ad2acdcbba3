// Package lifecycle coordinates graceful shutdown. Components stop in
// stages: the HTTP listener first so no new requests arrive, then
// background workers so the audit trail can flush, then the stores they
// write to.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Stage orders shutdown hooks. All hooks of a stage finish before the
// next stage begins.
type Stage int

const (
	StageTraffic Stage = iota
	StageWorkers
	StageStores
)

var stageOrder = []Stage{StageTraffic, StageWorkers, StageStores}

// ShutdownFunc stops one component. It must respect ctx cancellation.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	stage Stage
	name  string
	fn    ShutdownFunc
}

// Manager collects shutdown hooks and runs them on termination.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []hook
}

// New creates a manager. The timeout bounds the whole shutdown, not each
// individual hook.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a shutdown hook to a stage. Within a stage, hooks run in
// reverse registration order so later components stop before whatever
// they were built on.
func (m *Manager) Register(stage Stage, name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{stage: stage, name: name, fn: fn})
}

// Shutdown runs every registered hook, stage by stage, under the
// configured timeout. A failing hook is logged and does not stop the
// remaining hooks; all failures are joined into the returned error.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	hooks := make([]hook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	var result error
	for _, stage := range stageOrder {
		for i := len(hooks) - 1; i >= 0; i-- {
			h := hooks[i]
			if h.stage != stage {
				continue
			}
			started := time.Now()
			if err := h.fn(ctx); err != nil {
				m.logger.Error("shutdown hook failed",
					zap.String("component", h.name),
					zap.Error(err))
				result = errors.Join(result, err)
				continue
			}
			m.logger.Info("component stopped",
				zap.String("component", h.name),
				zap.Duration("took", time.Since(started)))
		}
	}
	return result
}

// CancelOnSignal invokes cancel when SIGTERM or SIGINT arrives, letting
// the main goroutine fall through to Shutdown.
func (m *Manager) CancelOnSignal(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
