package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/cuefire/components"
)

func TestPatternOffsetStraight(t *testing.T) {
	for _, age := range []float64{0, 0.5, 1, 10, 123.4} {
		if got := PatternOffset(components.PatternStraight, age, 3, 0.5, 1.2); got != 0 {
			t.Errorf("straight offset at t=%v = %v, want 0", age, got)
		}
	}
}

// TestPatternOffsetBounded verifies no pattern exceeds its amplitude.
func TestPatternOffsetBounded(t *testing.T) {
	patterns := []components.PatternID{
		components.PatternSine,
		components.PatternZigzag,
		components.PatternWeave,
		components.PatternArc,
		components.PatternCorkscrew,
	}

	const amplitude = 2.5
	for _, p := range patterns {
		t.Run(p.String(), func(t *testing.T) {
			for age := 0.0; age < 20; age += 0.01 {
				got := PatternOffset(p, age, amplitude, 0.7, 0.3)
				if math.Abs(got) > amplitude+1e-9 {
					t.Fatalf("offset at t=%v = %v, exceeds amplitude %v", age, got, amplitude)
				}
			}
		})
	}
}

func TestPatternOffsetSine(t *testing.T) {
	// frequency 1, phase 0: quarter period peaks at the amplitude
	got := PatternOffset(components.PatternSine, 0.25, 2, 1, 0)
	if math.Abs(got-2) > 1e-12 {
		t.Errorf("sine at quarter period = %v, want 2", got)
	}
}

// TestPredictEnemyMatchesSteppedPath verifies a single long-range prediction
// matches the position reached by stepping tick by tick, which is what keeps
// the scheduler's aim locked to realized enemy paths.
func TestPredictEnemyMatchesSteppedPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern components.PatternID
	}{
		{"straight", components.PatternStraight},
		{"sine", components.PatternSine},
		{"zigzag", components.PatternZigzag},
		{"weave", components.PatternWeave},
		{"corkscrew", components.PatternCorkscrew},
	}

	const dt = 1.0 / 60.0
	const steps = 120

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enemy := components.Enemy{
				Pattern:   tc.pattern,
				BaseY:     1.5,
				Phase:     0.8,
				Amplitude: 2,
				Frequency: 0.6,
			}
			pos := components.Position{X: 42, Y: 1.5}
			vel := components.Velocity{X: -9}

			want := PredictEnemy(&enemy, pos, vel, dt*steps)

			stepped := enemy
			steppedPos := pos
			for i := 0; i < steps; i++ {
				steppedPos = PredictEnemy(&stepped, steppedPos, vel, dt)
				stepped.Age += dt
			}

			if math.Abs(steppedPos.X-want.X) > 1e-9 {
				t.Errorf("X: stepped %v, predicted %v", steppedPos.X, want.X)
			}
			if math.Abs(steppedPos.Y-want.Y) > 1e-9 {
				t.Errorf("Y: stepped %v, predicted %v", steppedPos.Y, want.Y)
			}
		})
	}
}

// TestPredictEnemyPathAgeOffset verifies a trailing formation unit evaluates
// the leader's path delayed by its offset.
func TestPredictEnemyPathAgeOffset(t *testing.T) {
	leader := components.Enemy{
		Pattern:   components.PatternSine,
		BaseY:     0,
		Amplitude: 2,
		Frequency: 0.5,
	}
	trailer := leader
	trailer.PathAgeOffset = 0.35

	leader.Age = 1.0
	trailer.Age = 1.0 + trailer.PathAgeOffset

	pos := components.Position{}
	vel := components.Velocity{}

	lp := PredictEnemy(&leader, pos, vel, 0)
	tp := PredictEnemy(&trailer, pos, vel, 0)
	if math.Abs(lp.Y-tp.Y) > 1e-12 {
		t.Errorf("trailer Y = %v, want leader Y %v at the same path age", tp.Y, lp.Y)
	}
}
