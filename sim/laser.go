package sim

import (
	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
)

// primaryLaser is the continuous-cadence laser. It runs its own fire loop
// against the nearest enemy and never serves cues.
type primaryLaser struct {
	baseWeapon
	cfg *config.PrimaryConfig

	cooldown  float64
	lockID    uint32
	hasLock   bool
	lockUntil float64
}

func (w *primaryLaser) ID() components.WeaponID { return components.WeaponPrimary }
func (w *primaryLaser) AssignmentWeight() int   { return w.cfg.Weight }

func (w *primaryLaser) IsEnabled(combat *CombatConfig) bool {
	return combat.Weapons[components.WeaponPrimary]
}

func (w *primaryLaser) PlanCue(_ *Sim, _ *enemyTarget, _ float64) bool { return false }

func (w *primaryLaser) Reset() {
	w.cooldown = 0
	w.hasLock = false
	w.lockID = 0
	w.lockUntil = 0
}

func (w *primaryLaser) Step(s *Sim, dt float64) {
	w.cooldown -= dt
	if w.cooldown > 0 {
		return
	}

	target, ok := w.acquireTarget(s)
	if !ok {
		return
	}

	// Fixed-point iteration on flight time: aim at where the target will
	// be when the shot arrives.
	from, _ := s.shipPoseAt(s.timeSec)
	impact := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, s.timeSec)
	flight := 0.0
	for i := 0; i < 3; i++ {
		flight = impact.Sub(from).Len() / w.cfg.Speed
		impact = s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, s.timeSec+flight)
	}

	vel := systems.AimVelocity(from, impact, flight)
	s.spawnShot(from, vel, w.cfg.Radius, w.cfg.Lifetime, false, false)

	intensity := s.intensityAt(s.timeSec)
	cadence := s.moodScalars.PlayerFireCadence * s.combat.FireRateScale * (0.6 + 0.8*intensity)
	w.cooldown = systems.Clamp(w.cfg.BaseInterval/cadence, w.cfg.MinInterval, w.cfg.MaxInterval)
}

// acquireTarget returns the current fire target, preferring the sticky lock
// while it is alive, in range and unexpired. Cue-claimed enemies are left to
// their cue weapon.
func (w *primaryLaser) acquireTarget(s *Sim) (enemyTarget, bool) {
	maxX := s.cfg.World.ShipX + w.cfg.Range

	if w.hasLock && s.timeSec < w.lockUntil {
		if t, ok := s.targetByID(w.lockID); ok && !t.Enemy.HasScheduledCue &&
			t.Pos.X > s.cfg.World.ShipX && t.Pos.X < maxX {
			return t, true
		}
	}
	w.hasLock = false

	targets := s.collectTargets(func(e *components.Enemy, pos *components.Position) bool {
		return !e.HasScheduledCue && pos.X > s.cfg.World.ShipX && pos.X < maxX
	})
	if len(targets) == 0 {
		return enemyTarget{}, false
	}

	best := 0
	for i := 1; i < len(targets); i++ {
		if targets[i].Pos.X < targets[best].Pos.X {
			best = i
		}
	}

	w.lockID = targets[best].ID
	w.hasLock = true
	w.lockUntil = s.timeSec + w.cfg.LockWindow
	return targets[best], true
}

// cueLaser fires one intercept-solved projectile per assigned cue, timed so
// the shot arrives exactly at the cue time.
type cueLaser struct {
	baseWeapon
	cfg *config.LaserConfig
}

func (w *cueLaser) ID() components.WeaponID { return components.WeaponCueLaser }
func (w *cueLaser) AssignmentWeight() int   { return w.cfg.Weight }

func (w *cueLaser) IsEnabled(combat *CombatConfig) bool {
	return combat.Weapons[components.WeaponCueLaser]
}

func (w *cueLaser) PlanCue(s *Sim, target *enemyTarget, cueTime float64) bool {
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
		// Not enough time at nominal speed: fire immediately, overspeed.
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

func (w *cueLaser) FireQueuedShot(s *Sim, shot PlannedShot) {
	target, ok := s.targetByID(shot.EnemyID)
	if !ok {
		return // enemy died after planning; the cue scores as a miss
	}

	from, _ := s.shipPoseAt(s.timeSec)
	impact := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, shot.CueTime)
	vel := systems.AimVelocity(from, impact, s.cueShotLead(shot.CueTime))
	s.spawnShot(from, vel, w.cfg.Radius, w.cfg.Lifetime, true, false)
}

// cueShotLead is the aim lead for a cue shot fired now: the remaining time
// to the cue, floored so late fallback shots keep a finite velocity.
func (s *Sim) cueShotLead(cueTime float64) float64 {
	lead := cueTime - s.timeSec
	floor := s.cfg.Scheduler.MinLead * s.cfg.Scheduler.FallbackLeadFraction
	if lead < floor {
		lead = floor
	}
	return lead
}

// cleanupLaser resolves its cue with a beam instead of a projectile: the
// target is primed at fire time and destroyed at the cue time with zero
// timing error.
type cleanupLaser struct {
	baseWeapon
	cfg *config.CleanupConfig
}

func (w *cleanupLaser) ID() components.WeaponID { return components.WeaponCleanupLaser }
func (w *cleanupLaser) AssignmentWeight() int   { return w.cfg.Weight }

func (w *cleanupLaser) IsEnabled(combat *CombatConfig) bool {
	return combat.Weapons[components.WeaponCleanupLaser]
}

func (w *cleanupLaser) PlanCue(s *Sim, target *enemyTarget, cueTime float64) bool {
	s.queuePlannedShot(PlannedShot{
		CueTime:  cueTime,
		FireTime: cueTime - s.cfg.Scheduler.MinLead,
		EnemyID:  target.ID,
		Weapon:   w.ID(),
	})
	return true
}

func (w *cleanupLaser) FireQueuedShot(s *Sim, shot PlannedShot) {
	target, ok := s.targetByID(shot.EnemyID)
	if !ok {
		return
	}

	if enemy := s.enemyMap.Get(target.Entity); enemy != nil {
		enemy.CuePrimed = true
	}

	from, _ := s.shipPoseAt(s.timeSec)
	to := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, shot.CueTime)
	s.spawnBeam(w.ID(), from, to, w.cfg.BeamLifetime)
}
