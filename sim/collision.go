package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/systems"
)

// stepCollision runs the broad-phase grid rebuild and circle overlap tests.
// Pairs where the enemy is claimed by a cue and the shot is a cue shot are
// skipped: cue resolution owns those, so a kill cannot preempt its own cue.
func (s *Sim) stepCollision(dt float64) {
	s.grid.Clear()
	maxEnemyRadius := 0.0

	qe := s.enemyFilter.Query()
	for qe.Next() {
		pos, _, body, _ := qe.Get()
		s.grid.Insert(qe.Entity(), pos.X, pos.Y)
		if body.Radius > maxEnemyRadius {
			maxEnemyRadius = body.Radius
		}
	}

	type hit struct {
		shot  ecs.Entity
		enemy ecs.Entity
	}
	var hits []hit
	claimed := make(map[ecs.Entity]bool)
	var neighbors []systems.Neighbor

	qs := s.shotFilter.Query()
	for qs.Next() {
		pos, _, body, shot := qs.Get()

		neighbors = s.grid.QueryRadiusInto(neighbors[:0], pos.X, pos.Y, body.Radius+maxEnemyRadius, s.posMap)
		for _, n := range neighbors {
			if claimed[n.E] {
				continue
			}
			enemy := s.enemyMap.Get(n.E)
			enemyBody := s.bodyMap.Get(n.E)
			if enemy == nil || enemyBody == nil {
				continue
			}
			r := body.Radius + enemyBody.Radius
			if n.DistSq > r*r {
				continue
			}
			if enemy.HasScheduledCue && shot.IsCue {
				continue
			}

			claimed[n.E] = true
			hits = append(hits, hit{shot: qs.Entity(), enemy: n.E})
			break // first overlap consumes the shot
		}
	}

	for _, h := range hits {
		if enemy, pos := s.enemyMap.Get(h.enemy), s.posMap.Get(h.enemy); enemy != nil && pos != nil {
			s.destroyEnemy(h.enemy, enemy.ID, *pos)
			s.score += s.cfg.Scoring.CollisionKill
		}
		s.world.RemoveEntity(h.shot)
	}

	s.collideEnemyShots()
}

// collideEnemyShots tests enemy projectiles against the ship and flashes the
// shield on impact. The ship never dies; hits are cosmetic plus telemetry.
func (s *Sim) collideEnemyShots() {
	var absorbed []ecs.Entity

	query := s.enemyShotFilter.Query()
	for query.Next() {
		pos, _, body, _ := query.Get()
		dx := pos.X - s.shipPos.X
		dy := pos.Y - s.shipPos.Y
		r := body.Radius + s.cfg.Ship.CollisionRadius
		if dx*dx+dy*dy <= r*r {
			absorbed = append(absorbed, query.Entity())
		}
	}

	for _, e := range absorbed {
		s.world.RemoveEntity(e)
		s.shipFlash = 1
		if s.collector != nil {
			s.collector.RecordShieldHit()
		}
	}
}

// destroyEnemy removes an enemy entity, spawns its explosion and drops its
// ID registration.
func (s *Sim) destroyEnemy(entity ecs.Entity, id uint32, at components.Position) {
	scale := explosionScaleFactor
	if body := s.bodyMap.Get(entity); body != nil {
		scale = body.Radius * explosionScaleFactor
	}
	s.spawnExplosion(at, scale)

	delete(s.enemyByID, id)
	s.world.RemoveEntity(entity)

	if s.collector != nil {
		s.collector.RecordEnemyDestroyed()
	}
}
