package sim

import (
	"math"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/systems"
)

// stepEnemyUpdate advances enemy motion and firing. Position is assigned
// from the same prediction the scheduler uses, so a predicted pose and the
// realized pose at that time are bit-identical.
func (s *Sim) stepEnemyUpdate(dt float64) {
	intensity := s.intensityAt(s.timeSec)

	// Fire origins are collected during iteration and spawned after.
	var fireFrom []components.Position

	query := s.enemyFilter.Query()
	for query.Next() {
		pos, vel, _, enemy := query.Get()

		*pos = systems.PredictEnemy(enemy, *pos, *vel, dt)
		enemy.Age += dt

		if !enemy.Entered && pos.X < s.cfg.World.ViewX {
			enemy.Entered = true
		}

		if enemy.Flash > 0 {
			enemy.Flash -= s.cfg.Enemies.FlashDecay * dt
			if enemy.Flash < 0 {
				enemy.Flash = 0
			}
		}

		arch := s.cfg.Derived.ArchetypeByID[enemy.Archetype]
		if arch == nil || arch.FireInterval <= 0 {
			continue
		}
		enemy.FireCooldown -= dt
		if enemy.FireCooldown > 0 || !enemy.Entered || pos.X <= s.cfg.World.ShipX {
			continue
		}

		fireFrom = append(fireFrom, *pos)
		cadence := s.combat.FireRateScale * s.moodScalars.FireCadence * (0.5 + intensity)
		enemy.FireCooldown = systems.Clamp(arch.FireInterval/cadence,
			s.cfg.Enemies.MinFireInterval, s.cfg.Enemies.MaxFireInterval)
	}

	for _, from := range fireFrom {
		s.fireEnemyShot(from)
	}
}

// fireEnemyShot spawns one enemy projectile aimed at the ship's predicted
// pose at arrival time.
func (s *Sim) fireEnemyShot(from components.Position) {
	c := &s.cfg.Enemies

	origin := systems.Vec3{X: from.X, Y: from.Y, Z: from.Z}
	ship, _ := s.shipPoseAt(s.timeSec)
	lead := math.Max(ship.Sub(origin).Len()/c.ShotSpeed, 1e-3)
	aim, _ := s.shipPoseAt(s.timeSec + lead)

	vel := systems.AimVelocity(origin, aim, lead)
	s.spawnEnemyShot(from, vel, c.ShotRadius, c.ShotLifetime)
}
