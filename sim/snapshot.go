package sim

import "github.com/pthm-cable/cuefire/components"

// Snapshot is a fully-owned copy of the observable simulation state. It
// shares no memory with the live world, so a caller may hold snapshots from
// many ticks (e.g. a scrub cache) while the simulation keeps stepping.
type Snapshot struct {
	Tick      int64
	TimeSec   float64
	Seed      int64
	Mood      MoodProfile
	Intensity float64

	Ship ShipState

	Enemies    []EnemyState
	Shots      []ShotState
	Missiles   []MissileState
	EnemyShots []EnemyShotState
	Explosions []ExplosionState
	Beams      []BeamState

	Score       int
	Combo       int
	CueResolved int
	CueMissed   int

	AvgCueErrorMs   float64
	PendingCueCount int
	PlannedCueCount int
	QueuedShotCount int
}

// ShipState is the player ship pose.
type ShipState struct {
	X, Y, Z float64
	Rot     float64
	Flash   float64
}

// EnemyState is one enemy's observable state.
type EnemyState struct {
	ID        uint32
	Archetype components.ArchetypeID
	Pattern   components.PatternID

	X, Y, Z float64
	Radius  float64
	Age     float64
	Flash   float64

	HasScheduledCue  bool
	ScheduledCueTime float64
	CuePrimed        bool
	Entered          bool
}

// ShotState is one player projectile (missiles are reported separately).
type ShotState struct {
	ID            uint32
	X, Y, Z       float64
	VX, VY, VZ    float64
	Age           float64
	IsCue, IsFlak bool
}

// MissileState is one homing missile, including the cosmetic path fields.
type MissileState struct {
	ID       uint32
	TargetID uint32
	CueTime  float64

	X, Y, Z                   float64
	VX, VY, VZ                float64
	LaunchX, LaunchY, LaunchZ float64
	TargetX, TargetY, TargetZ float64

	LoopTurns   int
	LoopDir     int
	PathVariant int
	Age         float64
}

// EnemyShotState is one enemy projectile.
type EnemyShotState struct {
	ID         uint32
	X, Y, Z    float64
	VX, VY, VZ float64
	Age        float64
	Style      uint8
}

// ExplosionState is one live explosion marker.
type ExplosionState struct {
	ID       uint32
	X, Y, Z  float64
	Age      float64
	Lifetime float64
	Scale    float64
}

// BeamState is one live beam visual.
type BeamState struct {
	ID     uint32
	Weapon components.WeaponID

	FromX, FromY, FromZ float64
	ToX, ToY, ToZ       float64

	Age      float64
	Lifetime float64
}

// Snapshot captures the current state. Safe to call between any two ticks;
// entity order follows world iteration order, which is deterministic for a
// deterministic run.
func (s *Sim) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      s.tick,
		TimeSec:   s.timeSec,
		Seed:      s.seed,
		Mood:      s.mood,
		Intensity: s.intensityAt(s.timeSec),

		Ship: ShipState{
			X: s.shipPos.X, Y: s.shipPos.Y, Z: s.shipPos.Z,
			Rot:   s.shipRot,
			Flash: s.shipFlash,
		},

		Score:       s.score,
		Combo:       s.combo,
		CueResolved: s.cueResolved,
		CueMissed:   s.cueMissed,

		AvgCueErrorMs:   s.AvgCueErrorMs(),
		PendingCueCount: s.PendingCueCount(),
		PlannedCueCount: s.PlannedCueCount(),
		QueuedShotCount: s.QueuedShotCount(),
	}

	qe := s.enemyFilter.Query()
	for qe.Next() {
		pos, _, body, enemy := qe.Get()
		snap.Enemies = append(snap.Enemies, EnemyState{
			ID:        enemy.ID,
			Archetype: enemy.Archetype,
			Pattern:   enemy.Pattern,
			X:         pos.X, Y: pos.Y, Z: pos.Z,
			Radius: body.Radius,
			Age:    enemy.Age,
			Flash:  enemy.Flash,

			HasScheduledCue:  enemy.HasScheduledCue,
			ScheduledCueTime: enemy.ScheduledCueTime,
			CuePrimed:        enemy.CuePrimed,
			Entered:          enemy.Entered,
		})
	}

	qs := s.shotFilter.Query()
	for qs.Next() {
		// The shot filter also matches missiles; those are reported in
		// Missiles below.
		if s.missileMap.HasAll(qs.Entity()) {
			continue
		}
		pos, vel, _, shot := qs.Get()
		snap.Shots = append(snap.Shots, ShotState{
			ID: shot.ID,
			X:  pos.X, Y: pos.Y, Z: pos.Z,
			VX: vel.X, VY: vel.Y, VZ: vel.Z,
			Age:   shot.Age,
			IsCue: shot.IsCue, IsFlak: shot.IsFlak,
		})
	}

	qm := s.missileFilter.Query()
	for qm.Next() {
		pos, vel, _, shot, missile := qm.Get()
		snap.Missiles = append(snap.Missiles, MissileState{
			ID:       shot.ID,
			TargetID: missile.TargetID,
			CueTime:  missile.CueTime,
			X:        pos.X, Y: pos.Y, Z: pos.Z,
			VX: vel.X, VY: vel.Y, VZ: vel.Z,
			LaunchX: missile.LaunchX, LaunchY: missile.LaunchY, LaunchZ: missile.LaunchZ,
			TargetX: missile.TargetX, TargetY: missile.TargetY, TargetZ: missile.TargetZ,
			LoopTurns:   missile.LoopTurns,
			LoopDir:     missile.LoopDir,
			PathVariant: missile.PathVariant,
			Age:         shot.Age,
		})
	}

	qn := s.enemyShotFilter.Query()
	for qn.Next() {
		pos, vel, _, shot := qn.Get()
		snap.EnemyShots = append(snap.EnemyShots, EnemyShotState{
			ID: shot.ID,
			X:  pos.X, Y: pos.Y, Z: pos.Z,
			VX: vel.X, VY: vel.Y, VZ: vel.Z,
			Age:   shot.Age,
			Style: shot.Style,
		})
	}

	qx := s.explosionFilter.Query()
	for qx.Next() {
		pos, explosion := qx.Get()
		snap.Explosions = append(snap.Explosions, ExplosionState{
			ID: explosion.ID,
			X:  pos.X, Y: pos.Y, Z: pos.Z,
			Age:      explosion.Age,
			Lifetime: explosion.Lifetime,
			Scale:    explosion.Scale,
		})
	}

	qb := s.beamFilter.Query()
	for qb.Next() {
		beam := qb.Get()
		snap.Beams = append(snap.Beams, BeamState{
			ID:     beam.ID,
			Weapon: beam.Weapon,
			FromX:  beam.FromX, FromY: beam.FromY, FromZ: beam.FromZ,
			ToX: beam.ToX, ToY: beam.ToY, ToZ: beam.ToZ,
			Age:      beam.Age,
			Lifetime: beam.Lifetime,
		})
	}

	return snap
}
