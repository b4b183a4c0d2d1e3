package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
)

// stepCleanup removes entities that left the corridor or outlived their
// lifetime. Entities are collected during iteration and removed after.
func (s *Sim) stepCleanup(dt float64) {
	w := &s.cfg.World
	lateralBound := w.LateralHalf * 2

	var doomed []ecs.Entity
	var doomedEnemyIDs []uint32

	qe := s.enemyFilter.Query()
	for qe.Next() {
		pos, _, _, enemy := qe.Get()
		if pos.X < w.KillX {
			doomed = append(doomed, qe.Entity())
			doomedEnemyIDs = append(doomedEnemyIDs, enemy.ID)
		}
	}

	qs := s.shotFilter.Query()
	for qs.Next() {
		pos, _, _, shot := qs.Get()
		if shot.Age > shot.MaxLife || s.outOfCorridor(pos, lateralBound) {
			doomed = append(doomed, qs.Entity())
		}
	}

	qn := s.enemyShotFilter.Query()
	for qn.Next() {
		pos, _, _, shot := qn.Get()
		if shot.Age > shot.MaxLife || s.outOfCorridor(pos, lateralBound) {
			doomed = append(doomed, qn.Entity())
		}
	}

	qx := s.explosionFilter.Query()
	for qx.Next() {
		_, explosion := qx.Get()
		if explosion.Age >= explosion.Lifetime {
			doomed = append(doomed, qx.Entity())
		}
	}

	qb := s.beamFilter.Query()
	for qb.Next() {
		beam := qb.Get()
		if beam.Age >= beam.Lifetime {
			doomed = append(doomed, qb.Entity())
		}
	}

	for _, id := range doomedEnemyIDs {
		delete(s.enemyByID, id)
	}
	for _, e := range doomed {
		s.world.RemoveEntity(e)
	}
}

// outOfCorridor reports whether a projectile has left the play volume.
func (s *Sim) outOfCorridor(pos *components.Position, lateralBound float64) bool {
	w := &s.cfg.World
	return pos.X < w.KillX || pos.X > w.SpawnX+4 || math.Abs(pos.Y) > lateralBound
}
