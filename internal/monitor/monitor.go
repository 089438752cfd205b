// Package monitor runs the scan scheduling loop: a single background
// worker that reloads configuration every cycle, evaluates the watched
// folders and the bookmark store, dispatches notifications for non-clean
// reports, and publishes the finished snapshot to the presentation shell.
package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tidylab/tidymon/internal/config"
	"github.com/tidylab/tidymon/internal/logging"
	"github.com/tidylab/tidymon/internal/notify"
	"github.com/tidylab/tidymon/internal/report"
	"github.com/tidylab/tidymon/internal/rules"
)

// State is the scheduler state.
type State int32

const (
	// StateIdle means the worker is waiting on the interval timer or a
	// wake signal.
	StateIdle State = iota
	// StateScanning means one cycle is executing. A cycle always runs to
	// completion once started.
	StateScanning
	// StateStopped is terminal; no cycle runs after it.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Publisher receives the finished snapshot of every scan cycle. The
// snapshot is complete and immutable when Publish is called.
type Publisher interface {
	Publish(snap *Snapshot)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(*Snapshot)

// Publish calls the function.
func (f PublisherFunc) Publish(snap *Snapshot) { f(snap) }

// Snapshot is the full result set of one scan cycle. It is written once by
// the worker after the cycle completes and never mutated afterwards, so
// readers never observe a partially populated set.
type Snapshot struct {
	// Cycle identifies the scan cycle in logs.
	Cycle      string
	StartedAt  time.Time
	FinishedAt time.Time
	// Folders holds one report per configured folder, in config order.
	Folders []report.FolderReport
	// Bookmarks is nil when bookmark checking is disabled, the store does
	// not exist, or the store could not be parsed this cycle.
	Bookmarks *report.BookmarkReport
}

// Worst returns the highest severity level across all reports in the
// snapshot. It drives the shell's aggregate indicator.
func (s *Snapshot) Worst() report.Level {
	levels := make([]report.Level, 0, len(s.Folders)+1)
	for _, r := range s.Folders {
		levels = append(levels, r.Level())
	}
	if s.Bookmarks != nil {
		levels = append(levels, s.Bookmarks.Level())
	}
	return report.Worst(levels...)
}

// Monitor owns the background scan worker. Exactly one goroutine runs Run;
// Wake, Stop, State, and Latest are safe to call from any goroutine.
type Monitor struct {
	provider   config.Provider
	dispatcher notify.Dispatcher
	publisher  Publisher
	logger     *logging.Logger
	bookmarks  *rules.BookmarkStore

	state  atomic.Int32
	latest atomic.Pointer[Snapshot]

	// lastCfg is the last successfully loaded configuration. It is touched
	// only by the worker goroutine.
	lastCfg *config.Config

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	now func() time.Time
}

// New creates a monitor. The dispatcher and publisher may be nil, in which
// case notifications and publication are skipped.
func New(provider config.Provider, dispatcher notify.Dispatcher, publisher Publisher, logger *logging.Logger) *Monitor {
	return &Monitor{
		provider:   provider,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		bookmarks:  rules.NewBookmarkStore(),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// SetPublisher sets the publisher. Must be called before Run.
func (m *Monitor) SetPublisher(p Publisher) {
	m.publisher = p
}

// Run executes the scheduling loop until Stop is called. The first cycle
// runs immediately, before the first wait. Run blocks; callers start it in
// its own goroutine and wait on Done for shutdown.
func (m *Monitor) Run() {
	defer close(m.done)
	defer m.state.Store(int32(StateStopped))

	for {
		select {
		case <-m.stop:
			return
		default:
		}

		m.state.Store(int32(StateScanning))
		if snap := m.runCycle(); snap != nil {
			m.latest.Store(snap)
			if m.publisher != nil {
				m.publisher.Publish(snap)
			}
		}
		m.state.Store(int32(StateIdle))

		timer := time.NewTimer(m.interval())
		select {
		case <-timer.C:
		case <-m.wake:
			timer.Stop()
		case <-m.stop:
			timer.Stop()
			return
		}
	}
}

// Wake asks the worker to start the next cycle without waiting out the
// remaining interval. Wakes are coalesced: at most one pending cycle is
// queued no matter how many times Wake is called.
func (m *Monitor) Wake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Stop signals the worker to exit. A cycle already in progress runs to
// completion; any pending wait is released immediately. Stop is idempotent.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Done is closed once the worker goroutine has exited.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// State returns the current scheduler state.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Latest returns the most recently published snapshot, or nil before the
// first successful cycle.
func (m *Monitor) Latest() *Snapshot {
	return m.latest.Load()
}

// ScanOnce runs a single cycle outside the scheduling loop, for one-shot
// CLI use. Unlike the loop, a config load failure is returned to the
// caller.
func (m *Monitor) ScanOnce() (*Snapshot, error) {
	cfg, err := m.provider.Load()
	if err != nil {
		return nil, err
	}
	m.lastCfg = cfg
	snap := m.evaluate(cfg)
	m.latest.Store(snap)
	if m.publisher != nil {
		m.publisher.Publish(snap)
	}
	return snap, nil
}

// interval is the wait duration for the next tick, read from the current
// configuration.
func (m *Monitor) interval() time.Duration {
	minutes := config.DefaultCheckIntervalMinutes
	if m.lastCfg != nil {
		minutes = m.lastCfg.CheckIntervalMinutes
	}
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}

// runCycle reloads configuration and evaluates everything. When the reload
// fails the previous configuration is reused; when none exists yet the
// cycle is skipped and retried on the next tick.
func (m *Monitor) runCycle() *Snapshot {
	cfg, err := m.provider.Load()
	if err != nil {
		if m.lastCfg == nil {
			m.logger.Error("Config load failed, skipping cycle: %v", err)
			return nil
		}
		m.logger.Warn("Config load failed, reusing previous configuration: %v", err)
		cfg = m.lastCfg
	} else {
		m.lastCfg = cfg
	}
	return m.evaluate(cfg)
}

// evaluate runs one full cycle against the given configuration: every
// folder, then the bookmark store, dispatching a notification for each
// non-clean report. The staleness cutoff uses a single captured "now" for
// the whole cycle.
func (m *Monitor) evaluate(cfg *config.Config) *Snapshot {
	now := m.now()
	snap := &Snapshot{
		Cycle:     uuid.NewString(),
		StartedAt: now,
		Folders:   make([]report.FolderReport, 0, len(cfg.Folders)),
	}

	for _, fc := range cfg.Folders {
		r := rules.EvaluateFolder(fc.Path, rules.FolderThresholds{
			MaxFiles:      fc.MaxFiles,
			MaxExtensions: fc.MaxExtensions,
			MaxStaleFiles: fc.MaxStaleFiles,
			StaleDays:     fc.StaleDays,
		}, now)
		snap.Folders = append(snap.Folders, r)
		m.logger.Debug("Cycle %s: %s score=%d level=%s", snap.Cycle, r.Path, r.Score, r.Level())

		if r.Level() != report.LevelClean && m.dispatcher != nil {
			m.dispatcher.NotifyFolder(r)
		}
	}

	if cfg.Bookmarks.Enabled && cfg.Bookmarks.Path != "" {
		doc, err := m.bookmarks.Load(cfg.Bookmarks.Path)
		switch {
		case err != nil:
			// Recoverable: folder reports stand, bookmark report omitted.
			m.logger.Warn("Cycle %s: bookmark check skipped: %v", snap.Cycle, err)
		case doc != nil:
			r := rules.EvaluateBookmarks(doc, rules.BookmarkThresholds{
				MaxUnsorted:      cfg.Bookmarks.MaxUnsorted,
				MaxDuplicates:    cfg.Bookmarks.MaxDuplicates,
				MaxUnusedPercent: cfg.Bookmarks.MaxUnusedPercent,
			})
			snap.Bookmarks = &r
			m.logger.Debug("Cycle %s: bookmarks score=%d level=%s", snap.Cycle, r.Score, r.Level())

			if r.Level() != report.LevelClean && m.dispatcher != nil {
				m.dispatcher.NotifyBookmarks(r)
			}
		}
	}

	snap.FinishedAt = m.now()
	return snap
}
