// Package pipeline serializes external command execution: one request in
// flight at a time, results ferried over a channel from the worker to the
// interaction loop, and a deferred status refresh after mutating commands.
package pipeline

import (
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval bounds how long the consumer loop waits between
// checks, which in turn bounds shutdown latency.
const DefaultPollInterval = 100 * time.Millisecond

// Request describes one external command. Immutable once submitted.
type Request struct {
	Args  []string
	Dir   string
	Label string // human-readable, e.g. "stage 2 files"
	Tag   string // machine tag the interaction loop switches on
	// OnDone runs on the interaction thread when the result is finished.
	// Handlers request refreshes via RequestRefresh instead of doing work.
	OnDone func(Result)
}

// Result is produced exactly once per accepted request.
type Result struct {
	Label    string
	Tag      string
	Args     []string
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int

	onDone func(Result)
}

// ExecFunc runs a request's command and reports normalized output.
type ExecFunc func(req Request) (stdout, stderr string, exitCode int)

// Dispatcher owns the busy and refresh-pending flags. Submit may be called
// from the interaction loop only; Finish must be called from it.
type Dispatcher struct {
	exec   ExecFunc
	poll   time.Duration
	logger *zap.Logger

	results chan *Result
	done    chan struct{}

	// guarded by the submit/finish discipline: both run on the interaction
	// loop, and the worker never touches these.
	busy    bool
	pending bool
	closed  bool
}

// New builds a dispatcher around exec. A zero poll interval falls back to
// DefaultPollInterval; a nil logger is replaced with a nop.
func New(exec ExecFunc, poll time.Duration, logger *zap.Logger) *Dispatcher {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		exec:   exec,
		poll:   poll,
		logger: logger,
		// Room for one in-flight result plus the shutdown sentinel, so a
		// late worker can never block teardown.
		results: make(chan *Result, 2),
		done:    make(chan struct{}),
	}
}

// Start launches the consumer loop. notify receives each finished result;
// the TUI passes tea.Program.Send so results land on the interaction loop.
func (d *Dispatcher) Start(notify func(*Result)) {
	go d.consume(notify)
}

func (d *Dispatcher) consume(notify func(*Result)) {
	defer close(d.done)
	for {
		select {
		case res := <-d.results:
			if res == nil { // shutdown sentinel
				d.logger.Info("dispatcher consumer exiting")
				return
			}
			notify(res)
		case <-time.After(d.poll):
			// Periodic wake keeps shutdown latency bounded by one poll
			// interval even if the channel receive were ever starved.
		}
	}
}

// Submit accepts the request unless a command is already in flight. A
// rejected request spawns no worker; callers surface a busy notice and must
// wait for the completion callback before retrying.
func (d *Dispatcher) Submit(req Request) bool {
	if d.busy || d.closed {
		return false
	}
	d.busy = true
	d.logger.Debug("command submitted", zap.String("label", req.Label), zap.Strings("args", req.Args))

	go func() {
		stdout, stderr, code := d.exec(req)
		d.results <- &Result{
			Label:    req.Label,
			Tag:      req.Tag,
			Args:     req.Args,
			Success:  code == 0,
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: code,
			onDone:   req.OnDone,
		}
	}()
	return true
}

// Busy reports whether a command is in flight.
func (d *Dispatcher) Busy() bool { return d.busy }

// RequestRefresh marks that a status refresh should follow the current
// batch. Called by completion handlers; the refresh itself runs later on
// the interaction loop, debounced by the caller.
func (d *Dispatcher) RequestRefresh() { d.pending = true }

// Finish settles a delivered result on the interaction loop: runs the
// completion handler (a panicking handler is logged, never propagated, and
// never leaves the busy flag stuck), clears busy, and reports whether a
// deferred refresh is due.
func (d *Dispatcher) Finish(res *Result) (refreshDue bool) {
	if res.onDone != nil {
		d.runHandler(res)
	}
	d.busy = false
	refreshDue = d.pending
	d.pending = false
	return refreshDue
}

func (d *Dispatcher) runHandler(res *Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("completion handler panicked",
				zap.String("label", res.Label),
				zap.Any("panic", r))
		}
	}()
	res.onDone(*res)
}

// Close pushes the shutdown sentinel and waits for the consumer loop to
// exit. Must run before process teardown; no result is delivered after the
// sentinel is processed.
func (d *Dispatcher) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.results <- nil
	<-d.done
}
