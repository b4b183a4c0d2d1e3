package sim

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/cuefire/config"
)

func newTestSim(t *testing.T, seed int64) *Sim {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return New(Options{Config: cfg, Seed: seed})
}

// beatCues builds an on-beat cue timeline.
func beatCues(duration, interval float64) []float64 {
	var times []float64
	for t := interval; t < duration; t += interval {
		times = append(times, t)
	}
	return times
}

func runFor(s *Sim, seconds float64) {
	dt := s.cfg.Sim.DT
	for s.Time() < seconds {
		s.Step(dt)
	}
}

func TestNormalizeSeed(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want int64
	}{
		{"positive passes through", 7, 7},
		{"zero falls back", 0, DefaultSeed},
		{"negative falls back", -3, DefaultSeed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSeed(tc.in); got != tc.want {
				t.Errorf("NormalizeSeed(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestStepGuards(t *testing.T) {
	s := newTestSim(t, 1)

	s.Step(0)
	s.Step(-0.5)
	s.Step(math.NaN())
	if s.Tick() != 0 || s.Time() != 0 {
		t.Errorf("invalid dt advanced the sim: tick=%d time=%v", s.Tick(), s.Time())
	}

	s.Step(10)
	if s.Time() != s.cfg.Sim.MaxDT {
		t.Errorf("oversized dt advanced time by %v, want clamp to %v", s.Time(), s.cfg.Sim.MaxDT)
	}
}

// TestTwinRunDeterminism runs two simulations with identical seed and
// timeline and requires byte-identical snapshots.
func TestTwinRunDeterminism(t *testing.T) {
	cues := beatCues(10, 0.5)
	intensity := []IntensitySample{{0, 0.2}, {5, 0.9}, {10, 0.4}}

	a := newTestSim(t, 99)
	b := newTestSim(t, 99)
	a.StartTrackRun(cues, intensity, MoodAggressive)
	b.StartTrackRun(cues, intensity, MoodAggressive)

	dt := a.cfg.Sim.DT
	for i := 0; i < 600; i++ {
		a.Step(dt)
		b.Step(dt)
	}

	snapA, snapB := a.Snapshot(), b.Snapshot()
	if !reflect.DeepEqual(snapA, snapB) {
		t.Errorf("twin runs diverged: a score=%d enemies=%d, b score=%d enemies=%d",
			snapA.Score, len(snapA.Enemies), snapB.Score, len(snapB.Enemies))
	}
}

// TestStartTrackRunResetsCompletely requires a restarted run to replay the
// first run exactly: same seed, same timeline, same trajectory.
func TestStartTrackRunResetsCompletely(t *testing.T) {
	cues := beatCues(8, 0.6)
	s := newTestSim(t, 5)

	s.StartTrackRun(cues, nil, MoodDriving)
	runFor(s, 8)
	first := s.Snapshot()

	s.StartTrackRun(cues, nil, MoodDriving)
	if s.Tick() != 0 || s.Time() != 0 || s.Score() != 0 {
		t.Fatalf("restart left residual state: tick=%d time=%v score=%d", s.Tick(), s.Time(), s.Score())
	}
	if snap := s.Snapshot(); len(snap.Enemies)+len(snap.Shots)+len(snap.Missiles)+len(snap.EnemyShots) != 0 {
		t.Fatal("restart left entities in the world")
	}

	runFor(s, 8)
	second := s.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("replay diverged: first score=%d hits=%d, second score=%d hits=%d",
			first.Score, first.CueResolved, second.Score, second.CueResolved)
	}
}

func TestAmbientSpawning(t *testing.T) {
	s := newTestSim(t, 3)
	s.StartTrackRun(nil, nil, MoodDriving)
	runFor(s, 5)

	snap := s.Snapshot()
	if len(snap.Enemies) == 0 {
		t.Error("no enemies after 5 seconds of ambient spawning")
	}

	// Trailing formation units spawn behind the spawn bound by the distance
	// covered during their path-age stagger.
	var maxSpeed, maxUnits float64
	for _, arch := range s.cfg.Archetypes {
		if arch.Speed > maxSpeed {
			maxSpeed = arch.Speed
		}
		if n := float64(arch.FormationMax); n > maxUnits {
			maxUnits = n
		}
	}
	bound := s.cfg.World.SpawnX + (maxUnits-1)*s.cfg.Enemies.CaterpillarDelay*maxSpeed*1.15
	for _, e := range snap.Enemies {
		if e.X > bound {
			t.Errorf("enemy %d at X=%v spawned past trailing bound %v", e.ID, e.X, bound)
		}
	}
}

// TestEnemiesRemovedPastKillBound verifies cleanup removes anything behind
// the kill bound every tick.
func TestEnemiesRemovedPastKillBound(t *testing.T) {
	s := newTestSim(t, 11)
	s.StartTrackRun(nil, nil, MoodDriving)

	dt := s.cfg.Sim.DT
	for i := 0; i < 1800; i++ {
		s.Step(dt)
		snap := s.Snapshot()
		for _, e := range snap.Enemies {
			if e.X < s.cfg.World.KillX {
				t.Fatalf("tick %d: enemy %d at X=%v survives past kill bound %v",
					i, e.ID, e.X, s.cfg.World.KillX)
			}
		}
	}
}

func TestSetRandomSeedNormalizes(t *testing.T) {
	s := newTestSim(t, 4)
	s.SetRandomSeed(-1)
	if s.Seed() != DefaultSeed {
		t.Errorf("Seed() = %d, want default %d", s.Seed(), DefaultSeed)
	}
}

func TestShipPoseIsPureFunctionOfTime(t *testing.T) {
	s := newTestSim(t, 2)
	s.StartTrackRun(nil, nil, MoodDriving)

	// The ship stage poses at the tick's start time, so after n+1 steps the
	// realized pose is the prediction at n*dt.
	dt := s.cfg.Sim.DT
	predicted, _ := s.shipPoseAt(60 * dt)
	for i := 0; i < 61; i++ {
		s.Step(dt)
	}

	if math.Abs(s.shipPos.Y-predicted.Y) > 1e-9 {
		t.Errorf("realized ship Y %v, predicted %v", s.shipPos.Y, predicted.Y)
	}
}
