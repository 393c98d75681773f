package score

import (
	"testing"
	"time"
)

func TestAwardBuildsCombo(t *testing.T) {
	tr := NewTracker(0, 0)
	now := time.Unix(1000, 0)
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, tr.Award(1, now))
		now = now.Add(time.Second)
	}
	want := []int{2, 4, 6, 8, 10, 10, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kill %d awarded %d, want %d (all %v)", i, got[i], want[i], got)
		}
	}
	if tr.Score != 50 || tr.Combo != DefaultMaxCombo {
		t.Fatalf("score=%d combo=%d", tr.Score, tr.Combo)
	}
}

func TestComboTimeout(t *testing.T) {
	tr := NewTracker(0, 0)
	t0 := time.Unix(1000, 0)
	tr.Award(2, t0)
	tr.Award(2, t0.Add(time.Second))
	if tr.Combo != 3 {
		t.Fatalf("combo = %d, want 3", tr.Combo)
	}

	// exactly at the timeout the combo survives
	tr.Tick(t0.Add(time.Second + DefaultComboTimeout))
	if tr.Combo != 3 {
		t.Fatalf("combo reset at the boundary")
	}
	tr.Tick(t0.Add(time.Second + DefaultComboTimeout + time.Millisecond))
	if tr.Combo != 1 {
		t.Fatalf("combo = %d after timeout, want 1", tr.Combo)
	}
	if pts := tr.Award(3, t0.Add(10*time.Second)); pts != 6 {
		t.Fatalf("award after reset = %d, want 6", pts)
	}
}

func TestTickBeforeFirstKill(t *testing.T) {
	tr := NewTracker(time.Second, 3)
	tr.Tick(time.Unix(1<<40, 0))
	if tr.Combo != 1 || tr.Score != 0 {
		t.Fatalf("fresh tracker changed: %+v", tr)
	}
}
