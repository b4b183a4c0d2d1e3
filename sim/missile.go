package sim

import (
	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
)

// missileLauncher serves cues with homing missiles. Missiles prefer a long
// flight time (BaseLead) and launch early; a late assignment shortens the
// flight down to MinLead. The loop parameters drawn at launch are cosmetic
// and never affect arrival.
type missileLauncher struct {
	baseWeapon
	cfg *config.MissileConfig
}

func (w *missileLauncher) ID() components.WeaponID { return components.WeaponMissile }
func (w *missileLauncher) AssignmentWeight() int   { return w.cfg.Weight }

func (w *missileLauncher) IsEnabled(combat *CombatConfig) bool {
	return combat.Weapons[components.WeaponMissile]
}

// CatchupLead shortens the preferred flight time when the cue is closer than
// BaseLead, never below MinLead.
func (w *missileLauncher) CatchupLead(s *Sim, remaining float64) float64 {
	return systems.Clamp(remaining, w.cfg.MinLead, w.cfg.BaseLead)
}

func (w *missileLauncher) PlanCue(s *Sim, target *enemyTarget, cueTime float64) bool {
	flight := w.CatchupLead(s, cueTime-s.timeSec)
	fireTime := cueTime - flight
	if fireTime < s.timeSec {
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

func (w *missileLauncher) FireQueuedShot(s *Sim, shot PlannedShot) {
	target, ok := s.targetByID(shot.EnemyID)
	if !ok {
		return
	}

	from, _ := s.shipPoseAt(s.timeSec)
	impact := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, shot.CueTime)
	vel := systems.AimVelocity(from, impact, s.cueShotLead(shot.CueTime))

	loopDir := 1
	if s.rng.Float64() < 0.5 {
		loopDir = -1
	}
	missile := components.Missile{
		TargetID: shot.EnemyID,
		CueTime:  shot.CueTime,
		LaunchX:  from.X, LaunchY: from.Y, LaunchZ: from.Z,
		TargetX: impact.X, TargetY: impact.Y, TargetZ: impact.Z,
		LoopDir: loopDir,
	}
	if w.cfg.MaxLoopTurns > 0 {
		missile.LoopTurns = s.rng.Intn(w.cfg.MaxLoopTurns + 1)
	}
	if w.cfg.PathVariants > 0 {
		missile.PathVariant = s.rng.Intn(w.cfg.PathVariants)
	}

	s.spawnMissile(from, vel, w.cfg.Radius, w.cfg.Lifetime, missile)
}
