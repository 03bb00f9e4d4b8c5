package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingExec counts executions and holds each worker until released.
type blockingExec struct {
	calls   chan Request
	release chan struct{}
}

func newBlockingExec() *blockingExec {
	return &blockingExec{
		calls:   make(chan Request, 8),
		release: make(chan struct{}),
	}
}

func (b *blockingExec) run(req Request) (string, string, int) {
	b.calls <- req
	<-b.release
	return "out", "", 0
}

func collect(t *testing.T) (func(*Result), chan *Result) {
	t.Helper()
	ch := make(chan *Result, 8)
	return func(r *Result) { ch <- r }, ch
}

func TestSubmitRejectsWhileBusy(t *testing.T) {
	exec := newBlockingExec()
	d := New(exec.run, 10*time.Millisecond, zap.NewNop())
	notify, results := collect(t)
	d.Start(notify)

	require.True(t, d.Submit(Request{Label: "first"}))
	assert.True(t, d.Busy())

	// While the first command runs, any further submission is rejected and
	// no worker is spawned for it.
	assert.False(t, d.Submit(Request{Label: "second"}))
	assert.False(t, d.Submit(Request{Label: "third"}))

	close(exec.release)
	res := <-results
	assert.Equal(t, "first", res.Label)

	// Exactly one execution happened.
	<-exec.calls
	select {
	case req := <-exec.calls:
		t.Fatalf("unexpected execution: %s", req.Label)
	default:
	}

	d.Finish(res)
	assert.False(t, d.Busy())
	assert.True(t, d.Submit(Request{Label: "fourth"}))
	res = <-results
	d.Finish(res)
	d.Close()
}

func TestResultCarriesCommandOutcome(t *testing.T) {
	d := New(func(req Request) (string, string, int) {
		return "stdout text", "stderr text", 1
	}, 10*time.Millisecond, zap.NewNop())
	notify, results := collect(t)
	d.Start(notify)

	require.True(t, d.Submit(Request{
		Label: "commit changes",
		Tag:   "commit",
		Args:  []string{"commit", "-m", "x"},
	}))
	res := <-results
	assert.Equal(t, "commit changes", res.Label)
	assert.Equal(t, "commit", res.Tag)
	assert.Equal(t, []string{"commit", "-m", "x"}, res.Args)
	assert.False(t, res.Success)
	assert.Equal(t, "stdout text", res.Stdout)
	assert.Equal(t, "stderr text", res.Stderr)
	assert.Equal(t, 1, res.ExitCode)
	d.Finish(res)
	d.Close()
}

func TestResultsArriveInSubmissionOrder(t *testing.T) {
	d := New(func(req Request) (string, string, int) {
		return req.Label, "", 0
	}, 10*time.Millisecond, zap.NewNop())
	notify, results := collect(t)
	d.Start(notify)

	for _, label := range []string{"one", "two", "three"} {
		require.True(t, d.Submit(Request{Label: label}))
		res := <-results
		assert.Equal(t, label, res.Label)
		d.Finish(res)
	}
	d.Close()
}

func TestCompletionHandlerRunsOnFinish(t *testing.T) {
	d := New(func(Request) (string, string, int) { return "", "", 0 }, 0, nil)
	notify, results := collect(t)
	d.Start(notify)

	var got *Result
	require.True(t, d.Submit(Request{
		Label:  "stage",
		OnDone: func(r Result) { got = &r },
	}))
	res := <-results
	assert.Nil(t, got, "handler must not run before Finish")
	d.Finish(res)
	require.NotNil(t, got)
	assert.Equal(t, "stage", got.Label)
	d.Close()
}

func TestHandlerPanicDoesNotStickBusy(t *testing.T) {
	d := New(func(Request) (string, string, int) { return "", "", 0 }, 0, zap.NewNop())
	notify, results := collect(t)
	d.Start(notify)

	require.True(t, d.Submit(Request{
		Label:  "explodes",
		OnDone: func(Result) { panic("handler bug") },
	}))
	res := <-results
	assert.NotPanics(t, func() { d.Finish(res) })
	assert.False(t, d.Busy())
	assert.True(t, d.Submit(Request{Label: "still works"}))
	d.Finish(<-results)
	d.Close()
}

func TestRefreshPendingCoalesces(t *testing.T) {
	d := New(func(Request) (string, string, int) { return "", "", 0 }, 0, nil)
	notify, results := collect(t)
	d.Start(notify)

	// Two successive successful mutations each request a refresh; the flag
	// coalesces them into a single due refresh per settled batch.
	handler := func(r Result) {
		if r.Success {
			d.RequestRefresh()
		}
	}

	require.True(t, d.Submit(Request{Label: "a", OnDone: handler}))
	due := d.Finish(<-results)
	assert.True(t, due)

	require.True(t, d.Submit(Request{Label: "b", OnDone: handler}))
	d.RequestRefresh() // a second request before settling changes nothing
	due = d.Finish(<-results)
	assert.True(t, due)

	// No further refresh is pending once settled.
	require.True(t, d.Submit(Request{Label: "c"}))
	due = d.Finish(<-results)
	assert.False(t, due)
	d.Close()
}

func TestCloseStopsConsumerWithinPollInterval(t *testing.T) {
	d := New(func(Request) (string, string, int) { return "", "", 0 }, 20*time.Millisecond, zap.NewNop())
	notify, results := collect(t)
	d.Start(notify)

	start := time.Now()
	d.Close()
	assert.Less(t, time.Since(start), 5*time.Second)

	// After the sentinel is processed no result is ever delivered.
	assert.False(t, d.Submit(Request{Label: "late"}))
	select {
	case res := <-results:
		t.Fatalf("unexpected delivery after shutdown: %v", res.Label)
	case <-time.After(50 * time.Millisecond):
	}

	// Close is idempotent.
	assert.NotPanics(t, d.Close)
}
