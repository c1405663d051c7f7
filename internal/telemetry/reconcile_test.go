package telemetry

import "testing"

func TestReconcile_FirstSnapshot(t *testing.T) {
	snap := Snapshot{
		Total: 120, Accepted: 100, Dropped: 20, PacketsPerSecond: 3.5,
		WarnThreshold: 50, DropThreshold: 110, State: StateWarn,
	}
	d := Reconcile(Display{}, snap)

	if !d.Available {
		t.Error("Available = false, want true")
	}
	if d.Total != 120 || d.Accepted != 100 || d.Dropped != 20 {
		t.Errorf("counters = %d/%d/%d, want 120/100/20", d.Total, d.Accepted, d.Dropped)
	}
	if d.PPS != 3.5 {
		t.Errorf("PPS = %v, want 3.5", d.PPS)
	}
	if d.Headline != 0 {
		t.Errorf("Headline = %d, want 0 (animation drives it up)", d.Headline)
	}
	if d.WarnThreshold != (Threshold{Value: 50, Set: true}) {
		t.Errorf("WarnThreshold = %+v, want seeded 50", d.WarnThreshold)
	}
	if d.DropThreshold != (Threshold{Value: 110, Set: true}) {
		t.Errorf("DropThreshold = %+v, want seeded 110", d.DropThreshold)
	}
	if d.State != StateWarn {
		t.Errorf("State = %v, want warn", d.State)
	}
}

func TestReconcile_SnapsDown(t *testing.T) {
	prev := Display{Available: true, Headline: 100, Total: 100}
	d := Reconcile(prev, Snapshot{Total: 40})
	if d.Headline != 40 {
		t.Errorf("Headline = %d, want 40", d.Headline)
	}
	if d.Total != 40 {
		t.Errorf("Total = %d, want 40", d.Total)
	}
}

func TestReconcile_UnchangedTotal(t *testing.T) {
	prev := Display{Available: true, Headline: 100, Total: 100}
	d := Reconcile(prev, Snapshot{Total: 100})
	if d.Headline != 100 {
		t.Errorf("Headline = %d, want 100", d.Headline)
	}
}

func TestReconcile_ThresholdsNotOverwritten(t *testing.T) {
	prev := Display{
		WarnThreshold: Threshold{Value: 7, Set: true},
	}
	d := Reconcile(prev, Snapshot{WarnThreshold: 50, DropThreshold: 110})
	if d.WarnThreshold.Value != 7 {
		t.Errorf("WarnThreshold = %d, want user value 7", d.WarnThreshold.Value)
	}
	if d.DropThreshold.Value != 110 {
		t.Errorf("DropThreshold = %d, want seeded 110", d.DropThreshold.Value)
	}

	// A second snapshot with a different suggestion does not re-seed.
	d = Reconcile(d, Snapshot{WarnThreshold: 60, DropThreshold: 200})
	if d.WarnThreshold.Value != 7 || d.DropThreshold.Value != 110 {
		t.Errorf("thresholds = %d/%d, want 7/110", d.WarnThreshold.Value, d.DropThreshold.Value)
	}
}

func TestFail_RetainsValues(t *testing.T) {
	prev := Display{Available: true, Headline: 90, Total: 90, Accepted: 80, Dropped: 10, State: StateDrop}
	d := Fail(prev)
	if d.Available {
		t.Error("Available = true after failure")
	}
	if d.Total != 90 || d.Headline != 90 || d.State != StateDrop {
		t.Errorf("values not retained: %+v", d)
	}
}

func TestFail_ThenSuccessRestores(t *testing.T) {
	d := Reconcile(Display{}, Snapshot{Total: 10, Accepted: 10})
	d = Fail(d)
	d = Reconcile(d, Snapshot{Total: 12, Accepted: 11, Dropped: 1})
	if !d.Available {
		t.Fatal("Available = false after recovery")
	}
	if d.Total != 12 || d.Accepted != 11 || d.Dropped != 1 {
		t.Errorf("counters = %d/%d/%d, want 12/11/1", d.Total, d.Accepted, d.Dropped)
	}
}

func runAnimation(a Animation) []int64 {
	var frames []int64
	for i := 0; i < 1000; i++ {
		v, done := a.Next()
		frames = append(frames, v)
		if done {
			break
		}
	}
	return frames
}

func TestAnimation_Steps(t *testing.T) {
	tests := []struct {
		name     string
		from, to int64
		want     []int64
	}{
		{"even", 0, 100, []int64{20, 40, 60, 80, 100}},
		{"rounded up", 0, 7, []int64{2, 4, 6, 7}},
		{"small delta", 10, 12, []int64{11, 12}},
		{"unchanged", 100, 100, []int64{100}},
		{"downward snaps", 100, 40, []int64{40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runAnimation(NewAnimation(tt.from, tt.to))
			if len(got) != len(tt.want) {
				t.Fatalf("frames = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("frames = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAnimation_NeverOvershoots(t *testing.T) {
	for to := int64(1); to <= 250; to++ {
		for _, v := range runAnimation(NewAnimation(0, to)) {
			if v > to {
				t.Fatalf("0->%d produced frame %d", to, v)
			}
		}
	}
}

func TestReconciler_ApplyAndStep(t *testing.T) {
	r := NewReconciler(Config{})

	d, applied := r.Apply(1, Snapshot{Total: 100})
	if !applied {
		t.Fatal("Apply(1) not applied")
	}
	if d.Headline != 0 {
		t.Errorf("Headline = %d before animation, want 0", d.Headline)
	}
	if !r.Animating() {
		t.Fatal("Animating() = false, want true")
	}

	var last Display
	for i := 0; i < 10; i++ {
		var running bool
		last, running = r.Step()
		if !running {
			break
		}
	}
	if last.Headline != 100 {
		t.Errorf("Headline = %d, want 100", last.Headline)
	}
	if r.Animating() {
		t.Error("Animating() = true after target reached")
	}
}

func TestReconciler_NewSnapshotRestartsAnimation(t *testing.T) {
	r := NewReconciler(Config{})
	r.Apply(1, Snapshot{Total: 100})
	d, _ := r.Step() // 20

	if d.Headline != 20 {
		t.Fatalf("Headline = %d, want 20", d.Headline)
	}

	// New target 70 from displayed 20: step 10.
	r.Apply(2, Snapshot{Total: 70})
	d, _ = r.Step()
	if d.Headline != 30 {
		t.Errorf("Headline = %d, want 30", d.Headline)
	}
}

func TestReconciler_DownwardCancelsAnimation(t *testing.T) {
	r := NewReconciler(Config{})
	r.Apply(1, Snapshot{Total: 100})
	r.Step()
	r.Step() // 40

	d, _ := r.Apply(2, Snapshot{Total: 10})
	if d.Headline != 10 {
		t.Errorf("Headline = %d, want 10", d.Headline)
	}
	if r.Animating() {
		t.Error("Animating() = true after snap down")
	}
}

func TestReconciler_StaleResultDropped(t *testing.T) {
	r := NewReconciler(Config{})
	r.Apply(2, Snapshot{Total: 50})

	d, applied := r.Apply(1, Snapshot{Total: 999})
	if applied {
		t.Error("stale Apply(1) was applied")
	}
	if d.Total != 50 {
		t.Errorf("Total = %d, want 50", d.Total)
	}

	if _, applied := r.ApplyFailure(2); applied {
		t.Error("ApplyFailure with already-applied seq was applied")
	}
	if !r.Display().Available {
		t.Error("display degraded by stale failure")
	}
}

func TestReconciler_FailureCancelsAnimation(t *testing.T) {
	r := NewReconciler(Config{})
	r.Apply(1, Snapshot{Total: 100})

	d, applied := r.ApplyFailure(2)
	if !applied || d.Available {
		t.Fatalf("ApplyFailure = (%+v, %v)", d, applied)
	}
	if r.Animating() {
		t.Error("Animating() = true after failure")
	}

	d, _ = r.Apply(3, Snapshot{Total: 100})
	if !d.Available {
		t.Error("Available = false after recovery")
	}
}

func TestReconciler_UserThresholds(t *testing.T) {
	r := NewReconciler(Config{WarnThreshold: 30})
	r.SetDropThreshold(80)

	d, _ := r.Apply(1, Snapshot{WarnThreshold: 50, DropThreshold: 110})
	if d.WarnThreshold.Value != 30 {
		t.Errorf("WarnThreshold = %d, want 30", d.WarnThreshold.Value)
	}
	if d.DropThreshold.Value != 80 {
		t.Errorf("DropThreshold = %d, want 80", d.DropThreshold.Value)
	}
}
