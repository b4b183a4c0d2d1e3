package sim

import (
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/systems"
)

// ScheduledCue tracks one musical cue through its life cycle:
// unplanned -> planned -> resolved|missed, terminal on removal. At most one
// enemy is ever assigned to a cue, and an enemy already claimed by a cue is
// never assigned a second one.
type ScheduledCue struct {
	TimeSec   float64
	Planned   bool
	HasEnemy  bool
	EnemyID   uint32
	HasWeapon bool
	Weapon    components.WeaponID
}

// PlannedShot is a committed fire event for a cue. Queues are kept in
// ascending FireTime order so the fire stage pops only due entries.
type PlannedShot struct {
	CueTime  float64
	FireTime float64
	EnemyID  uint32
	Weapon   components.WeaponID
}

// SetCueTimeline replaces the cue timeline. Input need not be sorted;
// non-finite and negative times are dropped at ingestion. Must be called
// between ticks.
func (s *Sim) SetCueTimeline(cueTimes []float64) {
	cleaned := make([]float64, 0, len(cueTimes))
	for _, t := range cueTimes {
		if !isFinite(t) || t < 0 {
			continue
		}
		cleaned = append(cleaned, t)
	}
	sort.Float64s(cleaned)

	s.cues = make([]ScheduledCue, len(cleaned))
	for i, t := range cleaned {
		s.cues[i] = ScheduledCue{TimeSec: t}
	}

	s.plannedShots = s.plannedShots[:0]
	s.plannedMissiles = s.plannedMissiles[:0]
}

// PendingCueCount returns the number of cues whose time has not elapsed.
func (s *Sim) PendingCueCount() int { return len(s.cues) }

// PlannedCueCount returns the number of pending cues already planned.
func (s *Sim) PlannedCueCount() int {
	n := 0
	for i := range s.cues {
		if s.cues[i].Planned {
			n++
		}
	}
	return n
}

// QueuedShotCount returns the number of committed, not-yet-fired shots.
func (s *Sim) QueuedShotCount() int {
	return len(s.plannedShots) + len(s.plannedMissiles)
}

// stepCuePlanning assigns enemies and weapons to cues whose lead time is
// inside the planning window. Cues outside the window, or without a viable
// candidate, are retried on subsequent ticks until claimed or due.
func (s *Sim) stepCuePlanning(dt float64) {
	c := &s.cfg.Scheduler
	now := s.timeSec

	var targets []enemyTarget
	collected := false

	for i := range s.cues {
		cue := &s.cues[i]
		if cue.Planned {
			continue
		}
		lead := cue.TimeSec - now
		if lead < c.MinLead || lead > c.MaxLead {
			continue
		}

		if !collected {
			// Only enemies with no existing cue claim are candidates.
			targets = s.collectTargets(func(e *components.Enemy, _ *components.Position) bool {
				return !e.HasScheduledCue
			})
			collected = true
		}

		idx := s.findCueCandidate(targets, cue.TimeSec)
		if idx < 0 {
			continue
		}

		weapon, ok := s.weapons.nextAssign()
		if !ok {
			continue
		}

		target := targets[idx]
		if !s.weapons.get(weapon).PlanCue(s, &target, cue.TimeSec) {
			continue
		}

		// Commit: claim the enemy, mark the cue planned.
		if enemy := s.enemyMap.Get(target.Entity); enemy != nil {
			enemy.HasScheduledCue = true
			enemy.ScheduledCueTime = cue.TimeSec
		}
		cue.Planned = true
		cue.HasEnemy = true
		cue.EnemyID = target.ID
		cue.HasWeapon = true
		cue.Weapon = weapon

		// Drop the claimed enemy from this tick's candidate pool.
		targets = append(targets[:idx], targets[idx+1:]...)
	}
}

// findCueCandidate scores candidates by predicted pose at the cue time:
// |dY|*yWeight + dX*xWeight, lowest wins (closest lateral alignment, then
// closest in depth). Candidates that would be behind the ship or past the
// far bound at the cue time are rejected. Returns -1 if none qualify.
func (s *Sim) findCueCandidate(targets []enemyTarget, cueTime float64) int {
	c := &s.cfg.Scheduler
	shipPose, _ := s.shipPoseAt(cueTime)

	best := -1
	bestScore := math.Inf(1)
	for i := range targets {
		t := &targets[i]
		predicted := s.enemyPosAt(&t.Enemy, t.Pos, t.Vel, cueTime)
		if predicted.X <= s.cfg.World.ShipX || predicted.X >= s.cfg.World.FarX {
			continue
		}

		dy := math.Abs(predicted.Y - shipPose.Y)
		dx := predicted.X - s.cfg.World.ShipX
		score := dy*c.CandidateYWeight + dx*c.CandidateXWeight
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// insertPlanned inserts a shot keeping the queue in ascending FireTime
// order (binary-search insertion; equal times keep insertion order).
func insertPlanned(queue []PlannedShot, ps PlannedShot) []PlannedShot {
	idx := sort.Search(len(queue), func(i int) bool {
		return queue[i].FireTime > ps.FireTime
	})
	queue = append(queue, PlannedShot{})
	copy(queue[idx+1:], queue[idx:])
	queue[idx] = ps
	return queue
}

// queuePlannedShot commits a fire event to the appropriate queue.
func (s *Sim) queuePlannedShot(ps PlannedShot) {
	if ps.Weapon == components.WeaponMissile {
		s.plannedMissiles = insertPlanned(s.plannedMissiles, ps)
	} else {
		s.plannedShots = insertPlanned(s.plannedShots, ps)
	}
}

// fireQueuedCueShots pops and executes all planned shots that have come due,
// in fire-time order within each queue.
func (s *Sim) fireQueuedCueShots() {
	now := s.timeSec

	due := 0
	for due < len(s.plannedShots) && s.plannedShots[due].FireTime <= now {
		due++
	}
	for i := 0; i < due; i++ {
		ps := s.plannedShots[i]
		s.weapons.get(ps.Weapon).FireQueuedShot(s, ps)
	}
	s.plannedShots = append(s.plannedShots[:0], s.plannedShots[due:]...)

	due = 0
	for due < len(s.plannedMissiles) && s.plannedMissiles[due].FireTime <= now {
		due++
	}
	for i := 0; i < due; i++ {
		ps := s.plannedMissiles[i]
		s.weapons.get(ps.Weapon).FireQueuedShot(s, ps)
	}
	s.plannedMissiles = append(s.plannedMissiles[:0], s.plannedMissiles[due:]...)
}

// stepCueResolution scores every cue whose time has elapsed. A cue with no
// assigned enemy, or whose enemy died early, is scored as a miss - never
// silently dropped.
func (s *Sim) stepCueResolution(dt float64) {
	for len(s.cues) > 0 && s.cues[0].TimeSec <= s.timeSec {
		cue := s.cues[0]
		s.cues = s.cues[1:]
		s.resolveCue(cue, dt)
	}
}

// resolveCue decides hit vs miss for one elapsed cue and updates
// score/combo state. Entity positions have advanced past the cue time by
// this tick's integration, so both sides are rewound to the cue time before
// the distance test.
func (s *Sim) resolveCue(cue ScheduledCue, dt float64) {
	if !cue.HasEnemy {
		s.recordCueMiss()
		return
	}

	target, alive := s.targetByID(cue.EnemyID)
	if !alive {
		s.recordCueMiss()
		return
	}

	// The cleanup laser carries no projectile: a primed enemy resolves
	// directly.
	if cue.HasWeapon && cue.Weapon == components.WeaponCleanupLaser && target.Enemy.CuePrimed {
		s.destroyEnemy(target.Entity, target.ID, target.Pos)
		s.recordCueHit(0)
		return
	}

	// Rewind: entity state within this tick corresponds to timeSec+dt.
	delta := s.timeSec + dt - cue.TimeSec
	enemyAtCue := systems.PredictEnemy(&target.Enemy, target.Pos, target.Vel, -delta)

	shotEntity, errMs, found := s.nearestShotTo(enemyAtCue, target.Radius+s.cfg.Scheduler.HitTolerance, delta)
	if !found {
		s.recordCueMiss()
		return
	}

	s.world.RemoveEntity(shotEntity)
	s.destroyEnemy(target.Entity, target.ID, target.Pos)
	s.recordCueHit(errMs)
}

// nearestShotTo finds the player projectile closest to pos within maxDist,
// with each shot rewound linearly by delta seconds. The residual distance
// converts to a timing error at the shot's speed.
func (s *Sim) nearestShotTo(pos components.Position, maxDist, delta float64) (entity ecs.Entity, errMs float64, found bool) {
	bestDistSq := maxDist * maxDist
	var bestSpeed float64

	query := s.shotFilter.Query()
	for query.Next() {
		shotPos, shotVel, _, _ := query.Get()
		dx := shotPos.X - shotVel.X*delta - pos.X
		dy := shotPos.Y - shotVel.Y*delta - pos.Y
		distSq := dx*dx + dy*dy
		if distSq <= bestDistSq {
			bestDistSq = distSq
			entity = query.Entity()
			bestSpeed = math.Sqrt(shotVel.X*shotVel.X + shotVel.Y*shotVel.Y + shotVel.Z*shotVel.Z)
			found = true
		}
	}

	if found {
		speed := math.Max(bestSpeed, 1e-6)
		errMs = math.Sqrt(bestDistSq) / speed * 1000
	}
	return entity, errMs, found
}

func (s *Sim) recordCueHit(errMs float64) {
	s.combo++
	s.score += s.cfg.Scoring.CueHitBase * s.combo
	s.cueResolved++
	s.cueErrSumMs += errMs
	s.cueErrCount++
	if s.collector != nil {
		s.collector.RecordCueResolved(errMs)
	}
}

func (s *Sim) recordCueMiss() {
	s.combo = 0
	s.cueMissed++
	if s.collector != nil {
		s.collector.RecordCueMissed()
	}
}

// AvgCueErrorMs returns the mean absolute cue timing error over resolved
// cues, in milliseconds.
func (s *Sim) AvgCueErrorMs() float64 {
	if s.cueErrCount == 0 {
		return 0
	}
	return s.cueErrSumMs / float64(s.cueErrCount)
}
