// Package poller keeps a live dashboard snapshot fresh in the background
// with stale-while-revalidate semantics: the last good snapshot stays
// visible while a refresh is in flight, and a failed refresh never blanks
// previously displayed data.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trafficlens/internal/dashboard"
	"trafficlens/internal/reports"
	"trafficlens/internal/timeframe"
)

// DefaultInterval is the revalidation period used when none is configured.
const DefaultInterval = 5 * time.Minute

// State is what consumers observe. IsLoading is true only before the first
// snapshot has ever been obtained; IsValidating is true exactly while a
// background refresh runs with prior data present. Err and Data can be set
// simultaneously: stale data plus a warning beats a blank screen.
type State struct {
	Data         *dashboard.Snapshot
	Err          error
	IsLoading    bool
	IsValidating bool
	LastChecked  time.Time
}

// Poller revalidates the snapshot on a fixed timer and on demand. The run
// loop is serial, so timer ticks and manual refreshes are single-flighted by
// construction; a Refresh during an in-flight cycle coalesces into one
// follow-up run.
type Poller struct {
	runner   reports.Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	dateRange timeframe.DateRange
	gen       uint64

	refresh chan struct{}
}

// New creates a poller for the given range. The per-cycle timeout should be
// shorter than the interval so a cycle always finishes before the next one is
// due.
func New(runner reports.Runner, r timeframe.DateRange, interval, timeout time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 || timeout >= interval {
		timeout = interval / 2
	}
	return &Poller{
		runner:    runner,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
		dateRange: r,
		state:     State{IsLoading: true},
		refresh:   make(chan struct{}, 1),
	}
}

// Run revalidates immediately, then on every tick or manual refresh until ctx
// is cancelled. Blocking; callers run it in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.revalidate(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.revalidate(ctx)
		case <-p.refresh:
			p.revalidate(ctx)
		}
	}
}

// Refresh requests an out-of-band revalidation without discarding currently
// held data. Non-blocking; repeated calls coalesce.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// SetDateRange switches the polled window and triggers a refresh. A response
// from a superseded range arriving later is discarded, guarded by a
// generation counter.
func (p *Poller) SetDateRange(r timeframe.DateRange) {
	p.mu.Lock()
	if r == p.dateRange {
		p.mu.Unlock()
		return
	}
	p.dateRange = r
	p.gen++
	p.mu.Unlock()

	p.Refresh()
}

// State returns a copy of the current state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) revalidate(ctx context.Context) {
	p.mu.Lock()
	gen := p.gen
	r := p.dateRange
	hasData := p.state.Data != nil
	p.state.IsLoading = !hasData
	p.state.IsValidating = hasData
	p.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	snap, err := dashboard.GetSnapshot(cctx, p.runner, r, p.logger)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// The range changed while this cycle was in flight; a newer cycle
		// owns the state now.
		return
	}

	p.state.IsLoading = false
	p.state.IsValidating = false
	p.state.LastChecked = time.Now().UTC()

	if err != nil {
		p.state.Err = err
		p.logger.Warn("snapshot revalidation failed, keeping stale data",
			slog.Any("error", err), slog.Bool("has_data", hasData))
		return
	}

	p.state.Data = snap
	p.state.Err = nil
}
