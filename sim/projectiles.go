package sim

import (
	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/systems"
)

const (
	explosionLifetime    = 0.5
	explosionScaleFactor = 2.5
)

// spawnShot creates a player projectile at from with the given velocity.
func (s *Sim) spawnShot(from, vel systems.Vec3, radius, lifetime float64, isCue, isFlak bool) {
	id := s.nextShotID
	s.nextShotID++

	pos := components.Position{X: from.X, Y: from.Y, Z: from.Z}
	velocity := components.Velocity{X: vel.X, Y: vel.Y, Z: vel.Z}
	body := components.Body{Radius: radius}
	shot := components.Shot{ID: id, MaxLife: lifetime, IsCue: isCue, IsFlak: isFlak}

	s.shotMapper.NewEntity(&pos, &velocity, &body, &shot)

	if s.collector != nil {
		s.collector.RecordShotFired()
	}
}

// spawnMissile creates a homing missile: a Shot entity extended with missile
// state.
func (s *Sim) spawnMissile(from, vel systems.Vec3, radius, lifetime float64, missile components.Missile) {
	id := s.nextShotID
	s.nextShotID++

	pos := components.Position{X: from.X, Y: from.Y, Z: from.Z}
	velocity := components.Velocity{X: vel.X, Y: vel.Y, Z: vel.Z}
	body := components.Body{Radius: radius}
	shot := components.Shot{ID: id, MaxLife: lifetime, IsCue: true}

	s.missileMapper.NewEntity(&pos, &velocity, &body, &shot, &missile)

	if s.collector != nil {
		s.collector.RecordShotFired()
	}
}

// spawnEnemyShot creates an enemy projectile.
func (s *Sim) spawnEnemyShot(from components.Position, vel systems.Vec3, radius, lifetime float64) {
	id := s.nextEnemyShotID
	s.nextEnemyShotID++

	pos := from
	velocity := components.Velocity{X: vel.X, Y: vel.Y, Z: vel.Z}
	body := components.Body{Radius: radius}
	shot := components.EnemyShot{ID: id, MaxLife: lifetime, Style: s.combat.ShotStyle}

	s.enemyShotMapper.NewEntity(&pos, &velocity, &body, &shot)
}

// spawnExplosion creates a short-lived explosion marker.
func (s *Sim) spawnExplosion(at components.Position, scale float64) {
	id := s.nextExplosionID
	s.nextExplosionID++

	pos := at
	explosion := components.Explosion{ID: id, Lifetime: explosionLifetime, Scale: scale}
	s.explosionMapper.NewEntity(&pos, &explosion)
}

// spawnBeam creates a transient beam visual anchored at fire time.
func (s *Sim) spawnBeam(weapon components.WeaponID, from, to systems.Vec3, lifetime float64) {
	id := s.nextBeamID
	s.nextBeamID++

	beam := components.Beam{
		ID: id, Lifetime: lifetime, Weapon: weapon,
		FromX: from.X, FromY: from.Y, FromZ: from.Z,
		ToX: to.X, ToY: to.Y, ToZ: to.Z,
	}
	s.beamMapper.NewEntity(&beam)
}

// stepProjectileUpdate re-aims missiles, then integrates and ages every
// projectile and transient.
func (s *Sim) stepProjectileUpdate(dt float64) {
	s.retargetMissiles()

	// Movement covers missiles too: the shot filter matches any entity
	// carrying the shot components.
	query := s.shotFilter.Query()
	for query.Next() {
		pos, vel, _, shot := query.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		pos.Z += vel.Z * dt
		shot.Age += dt
	}

	qe := s.enemyShotFilter.Query()
	for qe.Next() {
		pos, vel, _, shot := qe.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		pos.Z += vel.Z * dt
		shot.Age += dt
	}

	qx := s.explosionFilter.Query()
	for qx.Next() {
		_, explosion := qx.Get()
		explosion.Age += dt
	}

	qb := s.beamFilter.Query()
	for qb.Next() {
		beam := qb.Get()
		beam.Age += dt
	}
}

// retargetMissiles steers each live missile so it still arrives at its
// target's predicted position exactly at the cue time. A missile whose
// target died keeps its last heading and expires by lifetime.
func (s *Sim) retargetMissiles() {
	query := s.missileFilter.Query()
	for query.Next() {
		pos, vel, _, _, missile := query.Get()

		remaining := missile.CueTime - s.timeSec
		if remaining <= 0 {
			continue
		}

		target, ok := s.targetByID(missile.TargetID)
		if !ok {
			continue
		}

		impact := s.enemyPosAt(&target.Enemy, target.Pos, target.Vel, missile.CueTime)
		missile.TargetX, missile.TargetY, missile.TargetZ = impact.X, impact.Y, impact.Z

		origin := systems.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
		aim := systems.AimVelocity(origin, impact, s.cueShotLead(missile.CueTime))
		vel.X, vel.Y, vel.Z = aim.X, aim.Y, aim.Z
	}
}
