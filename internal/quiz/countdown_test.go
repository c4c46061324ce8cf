package quiz

import (
	"testing"
	"time"
)

func collectTicks(buf int) (func(int), chan int) {
	ch := make(chan int, buf)
	return func(remaining int) { ch <- remaining }, ch
}

func waitTick(t *testing.T, ch chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tick")
		return 0
	}
}

func TestCountdownRunsToExpiry(t *testing.T) {
	onTick, ticks := collectTicks(16)
	expired := make(chan struct{}, 1)
	c := NewCountdown(5*time.Millisecond, onTick, func() { expired <- struct{}{} })

	c.Start(3)

	want := []int{3, 2, 1, 0}
	for _, w := range want {
		if got := waitTick(t, ticks); got != w {
			t.Fatalf("tick: got %d, want %d", got, w)
		}
	}
	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expiry callback never fired")
	}
	if c.Running() {
		t.Fatalf("countdown still running after expiry")
	}
}

func TestCountdownPauseFreezesRemaining(t *testing.T) {
	onTick, ticks := collectTicks(64)
	c := NewCountdown(5*time.Millisecond, onTick, nil)

	c.Start(30)
	waitTick(t, ticks) // initial 30
	waitTick(t, ticks) // 29

	c.Pause()
	frozen := c.Remaining()
	if frozen <= 0 || frozen >= 30 {
		t.Fatalf("unexpected frozen value %d", frozen)
	}
	time.Sleep(30 * time.Millisecond)
	if got := c.Remaining(); got != frozen {
		t.Fatalf("pause drifted: %d -> %d", frozen, got)
	}
	if c.Running() {
		t.Fatalf("paused countdown reports running")
	}

	c.Resume()
	// The next tick continues from the frozen value, not a reset.
	for {
		got := waitTick(t, ticks)
		if got >= frozen {
			continue // stale pre-pause tick still in the buffer
		}
		if got != frozen-1 {
			t.Fatalf("resume: got %d, want %d", got, frozen-1)
		}
		return
	}
}

func TestCountdownStartReplacesPriorRun(t *testing.T) {
	onTick, ticks := collectTicks(64)
	c := NewCountdown(5*time.Millisecond, onTick, nil)

	c.Start(100)
	waitTick(t, ticks)
	c.Start(3)

	// After the replacement, every observed value must come from the new run.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-ticks:
			if v > 3 && v != 100 && v != 99 {
				t.Fatalf("stale ticker leaked value %d", v)
			}
			if v == 0 {
				return
			}
		case <-deadline:
			t.Fatalf("replacement run never expired")
		}
	}
}

func TestCountdownStartZeroExpiresImmediately(t *testing.T) {
	onTick, ticks := collectTicks(4)
	expired := make(chan struct{}, 1)
	c := NewCountdown(time.Hour, onTick, func() { expired <- struct{}{} })

	c.Start(0)
	if got := waitTick(t, ticks); got != 0 {
		t.Fatalf("tick: got %d, want 0", got)
	}
	select {
	case <-expired:
	default:
		t.Fatalf("zero start must expire synchronously")
	}
	if c.Running() {
		t.Fatalf("zero start must not leave a loop running")
	}
}

func TestCountdownStopClears(t *testing.T) {
	c := NewCountdown(time.Hour, nil, nil)
	c.Start(30)
	c.Stop()
	if c.Remaining() != 0 || c.Running() {
		t.Fatalf("stop must zero and halt, remaining=%d running=%v", c.Remaining(), c.Running())
	}
	// Resume after stop is a no-op.
	c.Resume()
	if c.Running() {
		t.Fatalf("resume after stop must not restart")
	}
}
