package systems

import (
	"math"

	"github.com/pthm-cable/cuefire/components"
)

// PatternOffset evaluates a motion pattern's lateral offset at path age t.
// Patterns are pure functions of t, so the per-tick update and every
// prediction evaluate the exact same expression.
func PatternOffset(p components.PatternID, t, amplitude, frequency, phase float64) float64 {
	a := 2*math.Pi*frequency*t + phase
	switch p {
	case components.PatternStraight:
		return 0
	case components.PatternSine:
		return amplitude * math.Sin(a)
	case components.PatternZigzag:
		// Triangle wave: asin(sin) is linear between peaks.
		return amplitude * (2 / math.Pi) * math.Asin(math.Sin(a))
	case components.PatternWeave:
		return amplitude * (0.7*math.Sin(a) + 0.3*math.Sin(2.3*a+1.3))
	case components.PatternArc:
		return amplitude * (0.6*math.Sin(a) + 0.4*math.Sin(0.5*a+0.5*phase))
	case components.PatternCorkscrew:
		return amplitude * (0.55*math.Sin(a) + 0.45*math.Sin(1.7*a+0.8))
	default:
		return 0
	}
}

// PredictEnemy returns an enemy's position dt seconds ahead of its current
// state. The per-tick enemy update assigns the result of this same function,
// so predicted and realized positions cannot diverge.
func PredictEnemy(e *components.Enemy, pos components.Position, vel components.Velocity, dt float64) components.Position {
	t := e.Age + dt - e.PathAgeOffset
	return components.Position{
		X: pos.X + vel.X*dt,
		Y: e.BaseY + PatternOffset(e.Pattern, t, e.Amplitude, e.Frequency, e.Phase),
		Z: pos.Z,
	}
}
