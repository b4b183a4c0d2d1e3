package sim

import (
	"math"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
)

// patternParams is a concrete motion-pattern pick for one spawn wave.
type patternParams struct {
	Pattern   components.PatternID
	Amplitude float64
	Frequency float64
	Phase     float64
}

// enemyModule is the per-archetype spawn policy: how a pattern is picked for
// an ambient wave and how many units the wave contains.
type enemyModule interface {
	ID() components.ArchetypeID
	PickAmbientPattern(spawnIndex int, s *Sim) patternParams
	SpawnAmbientWave(s *Sim) int
}

// archetypeRegistry holds one module per archetype, keyed by the closed
// ArchetypeID enum. Constructed per Sim; no process-wide state.
type archetypeRegistry struct {
	modules [components.NumArchetypes]enemyModule
}

func newArchetypeRegistry(cfg *config.Config) *archetypeRegistry {
	reg := &archetypeRegistry{}
	for id := components.ArchetypeID(0); id < components.NumArchetypes; id++ {
		arch := cfg.Derived.ArchetypeByID[id]
		if arch == nil {
			continue
		}
		base := archetypeBase{id: id, arch: arch, patterns: cfg.Derived.PatternsByID[id]}
		if arch.FormationMax > 1 {
			reg.modules[id] = &formationArchetype{archetypeBase: base, delay: cfg.Enemies.CaterpillarDelay}
		} else {
			reg.modules[id] = &soloArchetype{archetypeBase: base}
		}
	}
	return reg
}

func (r *archetypeRegistry) get(id components.ArchetypeID) enemyModule {
	if id < components.NumArchetypes {
		return r.modules[id]
	}
	return nil
}

// archetypeBase carries the shared pattern-pick logic.
type archetypeBase struct {
	id       components.ArchetypeID
	arch     *config.ArchetypeConfig
	patterns []components.PatternID
}

func (b *archetypeBase) ID() components.ArchetypeID { return b.id }

// PickAmbientPattern draws a pattern and its parameters. Every draw goes
// through the sim RNG so spawn decisions replay from the seed.
func (b *archetypeBase) PickAmbientPattern(spawnIndex int, s *Sim) patternParams {
	p := b.patterns[s.rng.Intn(len(b.patterns))]
	amp := b.arch.AmplitudeMin + s.rng.Float64()*(b.arch.AmplitudeMax-b.arch.AmplitudeMin)
	freq := b.arch.FrequencyMin + s.rng.Float64()*(b.arch.FrequencyMax-b.arch.FrequencyMin)
	phase := s.rng.Float64() * 2 * math.Pi
	return patternParams{Pattern: p, Amplitude: amp, Frequency: freq, Phase: phase}
}

// soloArchetype spawns a single unit per ambient wave.
type soloArchetype struct {
	archetypeBase
}

func (m *soloArchetype) SpawnAmbientWave(s *Sim) int {
	params := m.PickAmbientPattern(s.spawnIndex, s)
	baseY := s.spawnBaseY(params.Amplitude)
	s.spawnEnemyUnit(m.arch, m.id, params, baseY, 0, 0)
	return 1
}

// formationArchetype spawns a multi-unit wave sharing one path, each unit
// staggered along it by a per-unit path-age offset. Units trail the leader
// visually but collide independently.
type formationArchetype struct {
	archetypeBase
	delay float64
}

func (m *formationArchetype) SpawnAmbientWave(s *Sim) int {
	params := m.PickAmbientPattern(s.spawnIndex, s)
	baseY := s.spawnBaseY(params.Amplitude)

	span := m.arch.FormationMax - m.arch.FormationMin
	n := m.arch.FormationMin
	if span > 0 {
		n += s.rng.Intn(span + 1)
	}

	for i := 0; i < n; i++ {
		s.spawnEnemyUnit(m.arch, m.id, params, baseY, i, m.delay)
	}
	return n
}

// spawnBaseY picks a lateral anchor that keeps the pattern inside the
// corridor.
func (s *Sim) spawnBaseY(amplitude float64) float64 {
	margin := s.cfg.World.LateralHalf - amplitude
	if margin < 0 {
		margin = 0
	}
	return (s.rng.Float64()*2 - 1) * margin
}

// spawnEnemyUnit creates one enemy entity. unitIndex staggers formation
// units: path age is offset so the unit follows the shared path delayed,
// and spawn X trails by the distance covered in that delay.
func (s *Sim) spawnEnemyUnit(arch *config.ArchetypeConfig, id components.ArchetypeID, params patternParams, baseY float64, unitIndex int, delay float64) {
	intensity := s.intensityAt(s.timeSec)
	speed := arch.Speed * s.moodScalars.EnemySpeed * (0.85 + 0.3*intensity)

	offset := float64(unitIndex) * delay

	enemyID := s.nextEnemyID
	s.nextEnemyID++

	pos := components.Position{
		X: s.cfg.World.SpawnX + offset*speed,
		Y: baseY + systems.PatternOffset(params.Pattern, -offset, params.Amplitude, params.Frequency, params.Phase),
	}
	vel := components.Velocity{X: -speed}
	body := components.Body{Radius: arch.Radius}
	enemy := components.Enemy{
		ID:            enemyID,
		Archetype:     id,
		Pattern:       params.Pattern,
		BaseY:         baseY,
		Phase:         params.Phase,
		Amplitude:     params.Amplitude,
		Frequency:     params.Frequency,
		PathAgeOffset: offset,
	}
	if arch.FireInterval > 0 {
		// First shot lands somewhere inside the interval, not in lockstep
		enemy.FireCooldown = arch.FireInterval * (0.4 + 0.6*s.rng.Float64())
	}

	entity := s.enemyMapper.NewEntity(&pos, &vel, &body, &enemy)
	s.enemyByID[enemyID] = entity

	if s.collector != nil {
		s.collector.RecordEnemySpawned()
	}
}

// stepEnemySpawn emits ambient waves on an intensity-modulated cadence.
func (s *Sim) stepEnemySpawn(dt float64) {
	if s.timeSec < s.nextSpawnAt {
		return
	}

	roster := s.combat.Archetypes
	mod := s.enemies.get(roster[s.rng.Intn(len(roster))])
	if mod != nil {
		mod.SpawnAmbientWave(s)
	}
	s.spawnIndex++

	intensity := s.intensityAt(s.timeSec)
	c := &s.cfg.Spawn
	base := c.BaseCadence * s.moodScalars.SpawnCadence / s.combat.SpawnRateScale
	jitter := c.Jitter * (2*s.rng.Float64() - 1)
	gap := systems.Clamp(base*(1-intensity*c.IntensityFactor)+jitter, c.MinGap, c.MaxGap)
	s.nextSpawnAt = s.timeSec + gap
}
