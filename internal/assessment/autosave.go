package assessment

import (
	"context"
	"sync"
	"time"

	"hourkeep/internal/metrics"
	"hourkeep/pkg/types"

	"github.com/sirupsen/logrus"
)

type snapshot struct {
	userID    string
	step      Step
	percent   int
	responses types.AssessmentResponses
}

// autosaver persists draft snapshots on a background goroutine. Only the
// newest pending snapshot is written; older ones are dropped. Failures are
// logged and otherwise ignored.
type autosaver struct {
	store   Store
	logger  logrus.FieldLogger
	timeout time.Duration

	mu      sync.Mutex
	pending *snapshot
	running bool
	halted  bool
	wg      sync.WaitGroup
}

func newAutosaver(store Store, logger logrus.FieldLogger, timeout time.Duration) *autosaver {
	return &autosaver{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

func (a *autosaver) enqueue(s snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.halted {
		return
	}

	a.pending = &s
	if a.running {
		return
	}

	a.running = true
	a.wg.Add(1)
	go a.drain()
}

func (a *autosaver) drain() {
	defer a.wg.Done()

	for {
		a.mu.Lock()
		s := a.pending
		a.pending = nil
		if s == nil || a.halted {
			a.running = false
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()

		a.save(*s)
	}
}

func (a *autosaver) save(s snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if _, err := a.store.SaveProgress(ctx, s.userID, s.percent, s.responses); err != nil {
		metrics.AutosaveFailures.Inc()
		a.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": s.userID,
			"step":    s.step,
		}).Warn("failed to autosave assessment progress")
	}
}

// halt stops accepting snapshots, drops any pending one and waits for an
// in-flight save to return.
func (a *autosaver) halt() {
	a.mu.Lock()
	a.halted = true
	a.pending = nil
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *autosaver) resume() {
	a.mu.Lock()
	a.halted = false
	a.mu.Unlock()
}

// flush waits until every enqueued snapshot has been written or dropped.
func (a *autosaver) flush() {
	a.wg.Wait()
}
