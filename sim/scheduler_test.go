package sim

import (
	"math"
	"sort"
	"testing"

	"github.com/pthm-cable/cuefire/components"
)

func TestSetCueTimelineSanitizes(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetCueTimeline([]float64{3, math.NaN(), -1, 1, math.Inf(1), 2})

	if got := s.PendingCueCount(); got != 3 {
		t.Fatalf("PendingCueCount = %d, want 3", got)
	}
	if !sort.SliceIsSorted(s.cues, func(i, j int) bool {
		return s.cues[i].TimeSec < s.cues[j].TimeSec
	}) {
		t.Error("cue timeline not sorted after ingestion")
	}
	if s.cues[0].TimeSec != 1 {
		t.Errorf("first cue at %v, want 1", s.cues[0].TimeSec)
	}
}

func TestInsertPlannedKeepsFireTimeOrder(t *testing.T) {
	var queue []PlannedShot
	for _, ft := range []float64{0.5, 0.2, 0.9, 0.2, 0.7} {
		queue = insertPlanned(queue, PlannedShot{FireTime: ft})
	}

	if len(queue) != 5 {
		t.Fatalf("queue length %d, want 5", len(queue))
	}
	for i := 1; i < len(queue); i++ {
		if queue[i].FireTime < queue[i-1].FireTime {
			t.Fatalf("queue out of order at %d: %v < %v", i, queue[i].FireTime, queue[i-1].FireTime)
		}
	}
}

// TestCueConservation requires every cue to resolve as exactly one hit or
// miss - none dropped, none double-counted.
func TestCueConservation(t *testing.T) {
	cues := beatCues(12, 0.4)

	s := newTestSim(t, 21)
	s.StartTrackRun(cues, nil, MoodDriving)
	runFor(s, 14)

	snap := s.Snapshot()
	if got := snap.CueResolved + snap.CueMissed; got != len(cues) {
		t.Errorf("resolved %d + missed %d = %d, want %d cues",
			snap.CueResolved, snap.CueMissed, got, len(cues))
	}
	if snap.PendingCueCount != 0 {
		t.Errorf("%d cues still pending after the track ended", snap.PendingCueCount)
	}
}

// TestNoDoubleAssignment checks that no enemy ever serves two pending cues.
func TestNoDoubleAssignment(t *testing.T) {
	s := newTestSim(t, 8)
	s.StartTrackRun(beatCues(10, 0.3), nil, MoodAggressive)

	dt := s.cfg.Sim.DT
	for i := 0; i < 600; i++ {
		s.Step(dt)

		seen := make(map[uint32]bool)
		for _, cue := range s.cues {
			if !cue.Planned || !cue.HasEnemy {
				continue
			}
			if seen[cue.EnemyID] {
				t.Fatalf("tick %d: enemy %d assigned to two pending cues", i, cue.EnemyID)
			}
			seen[cue.EnemyID] = true
		}
	}
}

func TestUnplannableCueScoresAsMiss(t *testing.T) {
	s := newTestSim(t, 2)
	// A cue before the first spawn, under the minimum lead: no candidate
	// can ever serve it.
	s.StartTrackRun([]float64{0.05}, nil, MoodDriving)
	runFor(s, 0.3)

	snap := s.Snapshot()
	if snap.CueMissed != 1 {
		t.Errorf("CueMissed = %d, want 1", snap.CueMissed)
	}
	if snap.CueResolved != 0 {
		t.Errorf("CueResolved = %d, want 0", snap.CueResolved)
	}
}

func TestScoreAndComboBookkeeping(t *testing.T) {
	s := newTestSim(t, 1)
	base := s.cfg.Scoring.CueHitBase

	s.recordCueHit(12)
	s.recordCueHit(8)
	if s.combo != 2 {
		t.Errorf("combo = %d, want 2", s.combo)
	}
	if want := base*1 + base*2; s.score != want {
		t.Errorf("score = %d, want %d", s.score, want)
	}
	if got := s.AvgCueErrorMs(); math.Abs(got-10) > 1e-12 {
		t.Errorf("AvgCueErrorMs = %v, want 10", got)
	}

	s.recordCueMiss()
	if s.combo != 0 {
		t.Errorf("combo after miss = %d, want 0", s.combo)
	}
	if s.cueMissed != 1 {
		t.Errorf("cueMissed = %d, want 1", s.cueMissed)
	}
}

// TestCueHitsLandOnTime runs a full track and requires resolved cues to
// average well under the hit tolerance converted to time.
func TestCueHitsLandOnTime(t *testing.T) {
	s := newTestSim(t, 33)
	s.StartTrackRun(beatCues(20, 0.5), nil, MoodDriving)
	runFor(s, 22)

	snap := s.Snapshot()
	if snap.CueResolved == 0 {
		t.Fatal("no cues resolved in a 20 second track")
	}
	// Intercept-solved shots arrive within the hit tolerance; at cue-laser
	// speed that bounds the error to a few tens of milliseconds.
	if snap.AvgCueErrorMs > 50 {
		t.Errorf("AvgCueErrorMs = %v, want <= 50", snap.AvgCueErrorMs)
	}
}

func TestQueuedShotCountDrainsByFireTime(t *testing.T) {
	s := newTestSim(t, 1)
	s.queuePlannedShot(PlannedShot{CueTime: 1, FireTime: 0.4, Weapon: components.WeaponCueLaser})
	s.queuePlannedShot(PlannedShot{CueTime: 1.2, FireTime: 0.6, Weapon: components.WeaponMissile})

	if got := s.QueuedShotCount(); got != 2 {
		t.Fatalf("QueuedShotCount = %d, want 2", got)
	}

	s.timeSec = 0.5
	s.fireQueuedCueShots()
	if got := s.QueuedShotCount(); got != 1 {
		t.Errorf("QueuedShotCount after draining due shots = %d, want 1", got)
	}
}
