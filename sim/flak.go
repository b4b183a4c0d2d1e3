package sim

import (
	"math"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
)

// flakBurst serves cues with a cone of pellets. The center pellet is
// intercept-aimed like a cue laser; the rest scatter inside the spread cone
// for coverage against drifting predictions.
type flakBurst struct {
	baseWeapon
	cfg *config.FlakConfig
}

func (w *flakBurst) ID() components.WeaponID { return components.WeaponFlak }
func (w *flakBurst) AssignmentWeight() int   { return w.cfg.Weight }

func (w *flakBurst) IsEnabled(combat *CombatConfig) bool {
	return combat.Weapons[components.WeaponFlak]
}

func (w *flakBurst) PlanCue(s *Sim, target *enemyTarget, cueTime float64) bool {
	fireTime, ok := systems.SolveFireTime(s.timeSec, cueTime, w.cfg.Speed,
		func(at float64) systems.Vec3 {
			pos, _ := s.shipPoseAt(at)
			return pos
		},
		func(at float64) systems.Vec3 {
			return s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, at)
		},
		s.cfg.Scheduler.SolverIterations)
	if !ok {
		fireTime = s.timeSec
	}

	s.queuePlannedShot(PlannedShot{
		CueTime:  cueTime,
		FireTime: fireTime,
		EnemyID:  target.ID,
		Weapon:   w.ID(),
	})
	return true
}

func (w *flakBurst) FireQueuedShot(s *Sim, shot PlannedShot) {
	target, ok := s.targetByID(shot.EnemyID)
	if !ok {
		return
	}

	from, _ := s.shipPoseAt(s.timeSec)
	impact := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, shot.CueTime)
	center := systems.AimVelocity(from, impact, s.cueShotLead(shot.CueTime))

	halfSpread := w.cfg.SpreadDeg * math.Pi / 180 / 2

	for i := 0; i < w.cfg.Pellets; i++ {
		vel := center
		if i > 0 {
			// Rotate in the XY plane by a jittered cone angle.
			angle := (2*s.rng.Float64() - 1) * halfSpread
			sin, cos := math.Sin(angle), math.Cos(angle)
			vel = systems.Vec3{
				X: center.X*cos - center.Y*sin,
				Y: center.X*sin + center.Y*cos,
				Z: center.Z,
			}
		}
		s.spawnShot(from, vel, w.cfg.Radius, w.cfg.Lifetime, true, true)
	}
}
