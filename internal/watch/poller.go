// Package watch re-runs registered feature suites on an interval (or on
// manual trigger) and delivers finished runs to the UI as Bubble Tea
// messages.
package watch

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/runner"
)

// SuiteState represents the current state of a watched suite.
type SuiteState int

const (
	SuiteIdle SuiteState = iota
	SuiteRunning
	SuiteError
)

// SuiteStatus holds the watch state for a single suite.
type SuiteStatus struct {
	Suite   string
	State   SuiteState
	LastRun time.Time
	Error   error
}

// RunResultMsg is a tea.Msg sent when a suite run completes.
type RunResultMsg struct {
	Run     *model.Run
	Results []model.ScenarioResult
	Suite   string
	Error   error
}

// runTimeout is the maximum time allowed for a single suite run.
const runTimeout = 5 * time.Minute

// Poller orchestrates background execution of registered suites.
type Poller struct {
	runner   *runner.Runner
	interval time.Duration
	suites   []runner.Suite
	statuses map[string]*SuiteStatus
	triggers map[string]chan struct{}
	resultCh chan RunResultMsg
	stopCh   chan struct{}
	mu       gosync.Mutex
	running  bool
}

// New creates a Poller that executes suites through r every interval.
// A non-positive interval defaults to five minutes.
func New(r *runner.Runner, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{
		runner:   r,
		interval: interval,
		statuses: make(map[string]*SuiteStatus),
		triggers: make(map[string]chan struct{}),
		resultCh: make(chan RunResultMsg, 16),
		stopCh:   make(chan struct{}),
	}
}

// RegisterSuite adds a feature suite to the watch rotation.
func (p *Poller) RegisterSuite(suite runner.Suite) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.suites = append(p.suites, suite)
	p.statuses[suite.Name] = &SuiteStatus{
		Suite: suite.Name,
		State: SuiteIdle,
	}
	p.triggers[suite.Name] = make(chan struct{}, 16)
}

// Start returns a tea.Cmd that starts a watch goroutine per suite and
// subscribes to results. The returned command waits on the result
// channel and returns RunResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	suites := make([]runner.Suite, len(p.suites))
	copy(suites, p.suites)
	p.mu.Unlock()

	for _, suite := range suites {
		go p.watchSuite(suite)
	}

	return p.WaitForNextResult()
}

// Stop halts all watch goroutines.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// RefreshAll triggers an immediate run of every registered suite.
func (p *Poller) RefreshAll() {
	p.mu.Lock()
	suites := make([]runner.Suite, len(p.suites))
	copy(suites, p.suites)
	p.mu.Unlock()

	for _, suite := range suites {
		p.RefreshSuite(suite.Name)
	}
}

// RefreshSuite triggers an immediate run of a single suite.
func (p *Poller) RefreshSuite(name string) {
	p.mu.Lock()
	trigger, ok := p.triggers[name]
	p.mu.Unlock()
	if !ok {
		return
	}

	select {
	case trigger <- struct{}{}:
	default:
		// Channel full; skip to avoid blocking
	}
}

// GetStatuses returns the current watch status of all registered suites.
func (p *Poller) GetStatuses() []SuiteStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SuiteStatus, 0, len(p.statuses))
	for _, s := range p.statuses {
		statuses = append(statuses, *s)
	}
	return statuses
}

// watchSuite runs the watch loop for a single suite. Each suite owns its
// trigger channel so a refresh for one suite is never consumed by another.
func (p *Poller) watchSuite(suite runner.Suite) {
	p.mu.Lock()
	trigger := p.triggers[suite.Name]
	p.mu.Unlock()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial run immediately.
	p.runOnce(suite)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.runOnce(suite)
		case <-trigger:
			p.runOnce(suite)
		}
	}
}

// runOnce executes a single suite run and sends a RunResultMsg on the
// result channel.
func (p *Poller) runOnce(suite runner.Suite) {
	p.setStatus(suite.Name, SuiteRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	run, results, err := p.runner.Run(ctx, suite)
	if err != nil {
		p.setStatus(suite.Name, SuiteError, err)
		p.sendResult(RunResultMsg{Suite: suite.Name, Error: err})
		return
	}

	p.setStatus(suite.Name, SuiteIdle, nil)
	p.sendResult(RunResultMsg{
		Run:     run,
		Results: results,
		Suite:   suite.Name,
	})
}

// setStatus updates the watch status for a suite.
func (p *Poller) setStatus(name string, state SuiteState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[name]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == SuiteIdle && err == nil {
		status.LastRun = time.Now()
	}
}

// sendResult sends a RunResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg RunResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the watcher
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next result
// from the result channel.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}
