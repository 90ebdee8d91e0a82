package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	s := New(epoch)
	var got []string

	s.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(250 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 250ms fired %v, want [a b]", got)
	}
	if s.Elapsed() != 250*time.Millisecond {
		t.Fatalf("elapsed = %v, want 250ms", s.Elapsed())
	}

	s.Advance(50 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("after 300ms fired %v, want [a b c]", got)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", s.Pending())
	}
}

func TestTiesFireInSchedulingOrder(t *testing.T) {
	s := New(epoch)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		s.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	s.Advance(time.Second)
	for i, v := range got {
		if v != i {
			t.Fatalf("fire order = %v, want ascending", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("fired %d timers, want 5", len(got))
	}
}

func TestNowInsideCallbackIsDeadline(t *testing.T) {
	s := New(epoch)
	var seen time.Time
	s.AfterFunc(750*time.Millisecond, func() { seen = s.Now() })

	s.Advance(2 * time.Second)
	if want := epoch.Add(750 * time.Millisecond); !seen.Equal(want) {
		t.Fatalf("Now() in callback = %v, want %v", seen, want)
	}
	if want := epoch.Add(2 * time.Second); !s.Now().Equal(want) {
		t.Fatalf("Now() after advance = %v, want %v", s.Now(), want)
	}
}

func TestCallbackChainFiresWithinWindow(t *testing.T) {
	s := New(epoch)
	count := 0
	var step func()
	step = func() {
		count++
		s.AfterFunc(100*time.Millisecond, step)
	}
	s.AfterFunc(100*time.Millisecond, step)

	s.Advance(time.Second)
	if count != 10 {
		t.Fatalf("chained callback ran %d times in 1s, want 10", count)
	}
	if s.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 (next link)", s.Pending())
	}
}

func TestStopCancels(t *testing.T) {
	s := New(epoch)
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })

	if !timer.Active() {
		t.Fatal("new timer should be active")
	}
	if !timer.Stop() {
		t.Fatal("Stop on pending timer should report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}
	s.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}

	var nilTimer *Timer
	if nilTimer.Stop() {
		t.Fatal("Stop on nil timer should report false")
	}
}

func TestStopFromAnotherCallback(t *testing.T) {
	s := New(epoch)
	fired := false
	later := s.AfterFunc(200*time.Millisecond, func() { fired = true })
	s.AfterFunc(100*time.Millisecond, func() { later.Stop() })

	s.Advance(time.Second)
	if fired {
		t.Fatal("timer stopped by an earlier callback still fired")
	}
}

func TestTimeNeverMovesBackward(t *testing.T) {
	s := New(epoch)
	s.Advance(time.Second)
	s.AdvanceTo(epoch)
	s.Advance(-time.Second)
	if s.Elapsed() != time.Second {
		t.Fatalf("elapsed = %v, want 1s", s.Elapsed())
	}
}

func TestNegativeDelayFiresOnNextAdvance(t *testing.T) {
	s := New(epoch)
	fired := false
	s.AfterFunc(-time.Second, func() { fired = true })
	if fired {
		t.Fatal("callback ran before Advance")
	}
	s.Advance(0)
	if !fired {
		t.Fatal("zero-delay callback did not fire on Advance(0)")
	}
}
