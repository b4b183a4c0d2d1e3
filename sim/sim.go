// Package sim implements the audio-synchronized combat simulation: a
// deterministic, seeded, fixed-step world of a player ship, spawning enemies,
// projectiles and explosions, driven by a pre-computed music timeline.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
	"github.com/pthm-cable/cuefire/telemetry"
)

// DefaultSeed is used when a requested seed does not normalize to a usable
// value.
const DefaultSeed int64 = 42

// NormalizeSeed maps arbitrary seed input onto a usable seed. Zero and
// negative values fall back to the fixed default so every run is
// reproducible from its reported seed.
func NormalizeSeed(seed int64) int64 {
	if seed <= 0 {
		return DefaultSeed
	}
	return seed
}

// Options configures a new Sim.
type Options struct {
	Config    *config.Config
	Seed      int64
	Collector *telemetry.Collector // optional; nil disables telemetry
}

// Sim holds the complete simulation state, advanced only by Step. It is
// single-threaded and synchronous: Step performs one full pipeline pass with
// no suspension points and no I/O, so a caller may run it in a tight loop to
// precompute an entire track ahead of real time. Configuration setters must
// be called strictly between ticks.
type Sim struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world *ecs.World

	// Entity mappers, one archetype per entity kind
	enemyMapper     *ecs.Map4[components.Position, components.Velocity, components.Body, components.Enemy]
	shotMapper      *ecs.Map4[components.Position, components.Velocity, components.Body, components.Shot]
	missileMapper   *ecs.Map5[components.Position, components.Velocity, components.Body, components.Shot, components.Missile]
	enemyShotMapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.EnemyShot]
	explosionMapper *ecs.Map2[components.Position, components.Explosion]
	beamMapper      *ecs.Map1[components.Beam]

	enemyFilter     *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Enemy]
	shotFilter      *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Shot]
	missileFilter   *ecs.Filter5[components.Position, components.Velocity, components.Body, components.Shot, components.Missile]
	enemyShotFilter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.EnemyShot]
	explosionFilter *ecs.Filter2[components.Position, components.Explosion]
	beamFilter      *ecs.Filter1[components.Beam]

	// Individual component mappers for lookups
	posMap     *ecs.Map1[components.Position]
	velMap     *ecs.Map1[components.Velocity]
	bodyMap    *ecs.Map1[components.Body]
	enemyMap   *ecs.Map1[components.Enemy]
	shotMap    *ecs.Map1[components.Shot]
	missileMap *ecs.Map1[components.Missile]

	// Enemy lookup by stable ID. Never iterated (map order would break
	// determinism); the scheduler resolves IDs through it.
	enemyByID map[uint32]ecs.Entity

	// Monotonic per-kind ID counters, never reused within a run
	nextEnemyID     uint32
	nextShotID      uint32
	nextEnemyShotID uint32
	nextExplosionID uint32
	nextBeamID      uint32

	// Timeline state
	tick    int64
	timeSec float64

	cues            []ScheduledCue
	plannedShots    []PlannedShot
	plannedMissiles []PlannedShot
	intensity       []IntensitySample
	mood            MoodProfile
	moodScalars     config.Mood
	combat          CombatConfig

	// Ship state
	shipPos   components.Position
	shipRot   float64
	shipFlash float64

	// Score/combo state
	score       int
	combo       int
	cueResolved int
	cueMissed   int
	cueErrSumMs float64
	cueErrCount int

	// Ambient spawn cadence
	nextSpawnAt float64
	spawnIndex  int

	weapons   *weaponRegistry
	enemies   *archetypeRegistry
	grid      *systems.Grid
	stages    []*stage
	collector *telemetry.Collector
}

// New creates a simulation from options. The zero timeline (no cues, flat
// intensity) is valid; StartTrackRun loads a track.
func New(opts Options) *Sim {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	seed := NormalizeSeed(opts.Seed)

	world := ecs.NewWorld()

	s := &Sim{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
		world: world,

		enemyMapper:     ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Enemy](world),
		shotMapper:      ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Shot](world),
		missileMapper:   ecs.NewMap5[components.Position, components.Velocity, components.Body, components.Shot, components.Missile](world),
		enemyShotMapper: ecs.NewMap4[components.Position, components.Velocity, components.Body, components.EnemyShot](world),
		explosionMapper: ecs.NewMap2[components.Position, components.Explosion](world),
		beamMapper:      ecs.NewMap1[components.Beam](world),

		enemyFilter:     ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Enemy](world),
		shotFilter:      ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Shot](world),
		missileFilter:   ecs.NewFilter5[components.Position, components.Velocity, components.Body, components.Shot, components.Missile](world),
		enemyShotFilter: ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.EnemyShot](world),
		explosionFilter: ecs.NewFilter2[components.Position, components.Explosion](world),
		beamFilter:      ecs.NewFilter1[components.Beam](world),

		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		enemyMap:   ecs.NewMap1[components.Enemy](world),
		shotMap:    ecs.NewMap1[components.Shot](world),
		missileMap: ecs.NewMap1[components.Missile](world),

		enemyByID: make(map[uint32]ecs.Entity),
		collector: opts.Collector,
	}

	s.grid = systems.NewGrid(
		cfg.World.KillX, cfg.World.SpawnX+4,
		-cfg.World.LateralHalf*2, cfg.World.LateralHalf*2,
		cfg.World.GridCellSize,
	)

	s.enemies = newArchetypeRegistry(cfg)
	s.weapons = newWeaponRegistry(cfg)

	s.mood = MoodDriving
	s.moodScalars = cfg.MoodOrDefault(string(s.mood))
	s.combat = defaultCombatConfig(cfg)
	s.weapons.rebuildPool(&s.combat)

	s.nextSpawnAt = cfg.Spawn.InitialDelay

	s.registerStages()

	for _, st := range s.stages {
		if st.Init != nil {
			st.Init()
		}
	}

	return s
}

// Step advances the simulation by dt seconds: one full pipeline pass in
// fixed stage order. dt is clamped to (0, max_dt]; the stepping function is
// total and never fails.
func (s *Sim) Step(dt float64) {
	if dt <= 0 || dt != dt {
		return
	}
	if dt > s.cfg.Sim.MaxDT {
		dt = s.cfg.Sim.MaxDT
	}

	for _, st := range s.stages {
		st.Step(dt)
	}

	s.timeSec += dt
	s.tick++

	if s.collector != nil {
		s.collector.EndTick(s.tick, s.timeSec, s.score, s.combo)
	}
}

// StartTrackRun resets the world completely and loads a new track timeline.
// After it returns: tick == 0, time == 0, no entities, zero score/combo,
// and the RNG is re-seeded, so two runs of the same track from the same seed
// produce byte-identical trajectories.
func (s *Sim) StartTrackRun(cueTimes []float64, intensity []IntensitySample, mood MoodProfile) {
	s.removeAllEntities()

	s.tick = 0
	s.timeSec = 0
	s.score = 0
	s.combo = 0
	s.cueResolved = 0
	s.cueMissed = 0
	s.cueErrSumMs = 0
	s.cueErrCount = 0

	s.nextEnemyID = 0
	s.nextShotID = 0
	s.nextEnemyShotID = 0
	s.nextExplosionID = 0
	s.nextBeamID = 0

	s.shipPos = components.Position{X: s.cfg.World.ShipX}
	s.shipRot = 0
	s.shipFlash = 0

	s.plannedShots = s.plannedShots[:0]
	s.plannedMissiles = s.plannedMissiles[:0]
	s.nextSpawnAt = s.cfg.Spawn.InitialDelay
	s.spawnIndex = 0

	s.rng = rand.New(rand.NewSource(s.seed))

	if s.collector != nil {
		s.collector.Reset()
	}

	s.SetMoodProfile(mood)
	s.SetCueTimeline(cueTimes)
	s.SetIntensityTimeline(intensity)

	for _, st := range s.stages {
		if st.Reset != nil {
			st.Reset()
		}
	}
}

// SetRandomSeed sets the seed used by the next StartTrackRun and re-seeds
// the stream immediately. Must be called between ticks.
func (s *Sim) SetRandomSeed(seed int64) {
	s.seed = NormalizeSeed(seed)
	s.rng = rand.New(rand.NewSource(s.seed))
}

// Seed returns the normalized seed of the current run.
func (s *Sim) Seed() int64 { return s.seed }

// Tick returns the current simulation tick.
func (s *Sim) Tick() int64 { return s.tick }

// Time returns the current simulation time in seconds.
func (s *Sim) Time() float64 { return s.timeSec }

// Score returns the current score.
func (s *Sim) Score() int { return s.score }

// removeAllEntities clears the world. Entities are collected first and
// removed after; removal during query iteration is not allowed.
func (s *Sim) removeAllEntities() {
	var doomed []ecs.Entity

	q := s.enemyFilter.Query()
	for q.Next() {
		doomed = append(doomed, q.Entity())
	}
	qs := s.shotFilter.Query()
	for qs.Next() {
		doomed = append(doomed, qs.Entity())
	}
	qe := s.enemyShotFilter.Query()
	for qe.Next() {
		doomed = append(doomed, qe.Entity())
	}
	qx := s.explosionFilter.Query()
	for qx.Next() {
		doomed = append(doomed, qx.Entity())
	}
	qb := s.beamFilter.Query()
	for qb.Next() {
		doomed = append(doomed, qb.Entity())
	}

	for _, e := range doomed {
		s.world.RemoveEntity(e)
	}

	clear(s.enemyByID)
}

// shipPoseAt predicts the ship pose at an absolute sim time. A pure
// function of time, shared by the per-tick ship stage and the intercept
// solver so predicted and realized poses match exactly.
func (s *Sim) shipPoseAt(at float64) (pos systems.Vec3, rot float64) {
	c := &s.cfg.Ship
	phase := 2 * math.Pi * c.WeaveFrequency * at
	y := c.WeaveAmplitude * math.Sin(phase)
	rot = -c.BankFactor * math.Cos(phase)
	return systems.Vec3{X: s.cfg.World.ShipX, Y: y}, rot
}

// enemyPosAt predicts an enemy's position at an absolute sim time >= now.
func (s *Sim) enemyPosAt(e *components.Enemy, pos components.Position, vel components.Velocity, at float64) systems.Vec3 {
	p := systems.PredictEnemy(e, pos, vel, at-s.timeSec)
	return systems.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}
