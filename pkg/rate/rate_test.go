package rate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestDebouncer_OnlyLatestCallExecutes(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(150*time.Millisecond, rec.record)

	// Three calls inside the quiet window: a at t=0, b at t=50, c at t=100.
	d.Call("a")
	time.Sleep(50 * time.Millisecond)
	d.Call("b")
	time.Sleep(50 * time.Millisecond)
	d.Call("c")

	// Nothing may fire before the quiet period elapses.
	assert.Empty(t, rec.snapshot())

	time.Sleep(250 * time.Millisecond)

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "c", calls[0])
}

func TestDebouncer_SeparatedCallsBothExecute(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)

	d.Call("a")
	time.Sleep(80 * time.Millisecond)
	d.Call("b")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)

	d.Call("a")
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestThrottler_LeadingEdge(t *testing.T) {
	rec := &recorder{}
	th := NewThrottler(100*time.Millisecond, rec.record)

	// First call goes through immediately.
	assert.True(t, th.Call("a"))
	// Calls inside the window are dropped, not queued.
	assert.False(t, th.Call("b"))
	assert.False(t, th.Call("c"))

	assert.Equal(t, []string{"a"}, rec.snapshot())

	time.Sleep(120 * time.Millisecond)

	// Next call after the window is allowed through immediately.
	assert.True(t, th.Call("d"))
	assert.Equal(t, []string{"a", "d"}, rec.snapshot())
}

func TestThrottler_Reset(t *testing.T) {
	rec := &recorder{}
	th := NewThrottler(time.Hour, rec.record)

	require.True(t, th.Call("a"))
	require.False(t, th.Call("b"))

	th.Reset()

	assert.True(t, th.Call("c"))
	assert.Equal(t, []string{"a", "c"}, rec.snapshot())
}
