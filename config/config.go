// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/cuefire/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim        SimConfig         `yaml:"sim"`
	World      WorldConfig       `yaml:"world"`
	Ship       ShipConfig        `yaml:"ship"`
	Spawn      SpawnConfig       `yaml:"spawn"`
	Scheduler  SchedulerConfig   `yaml:"scheduler"`
	Scoring    ScoringConfig     `yaml:"scoring"`
	Weapons    WeaponsConfig     `yaml:"weapons"`
	Enemies    EnemiesConfig     `yaml:"enemies"`
	Moods      map[string]Mood   `yaml:"moods"`
	Combat     CombatDefaults    `yaml:"combat"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds fixed-step parameters.
type SimConfig struct {
	DT    float64 `yaml:"dt"`     // canonical seconds per tick
	MaxDT float64 `yaml:"max_dt"` // Step clamps dt to this
}

// WorldConfig holds the combat corridor bounds. Enemies spawn at SpawnX and
// travel -X; they are removed once past KillX behind the ship.
type WorldConfig struct {
	SpawnX       float64 `yaml:"spawn_x"`
	FarX         float64 `yaml:"far_x"`  // candidates past this at cue time are rejected
	ViewX        float64 `yaml:"view_x"` // enemies count as "entered" below this X
	ShipX        float64 `yaml:"ship_x"`
	KillX        float64 `yaml:"kill_x"`
	LateralHalf  float64 `yaml:"lateral_half"`   // |Y| bound for spawns
	GridCellSize float64 `yaml:"grid_cell_size"` // collision broad-phase cell size
}

// ShipConfig holds player ship parameters.
type ShipConfig struct {
	CollisionRadius float64 `yaml:"collision_radius"`
	WeaveAmplitude  float64 `yaml:"weave_amplitude"`
	WeaveFrequency  float64 `yaml:"weave_frequency"`
	BankFactor      float64 `yaml:"bank_factor"`
	FlashDecay      float64 `yaml:"flash_decay"` // shield flash units per second
}

// SpawnConfig holds ambient wave cadence parameters.
type SpawnConfig struct {
	BaseCadence     float64 `yaml:"base_cadence"`
	IntensityFactor float64 `yaml:"intensity_factor"` // cadence *= 1 - intensity*this
	Jitter          float64 `yaml:"jitter"`
	MinGap          float64 `yaml:"min_gap"`
	MaxGap          float64 `yaml:"max_gap"`
	InitialDelay    float64 `yaml:"initial_delay"`
}

// SchedulerConfig holds cue/intercept scheduler parameters.
type SchedulerConfig struct {
	MinLead              float64 `yaml:"min_lead"`  // don't plan cues closer than this
	MaxLead              float64 `yaml:"max_lead"`  // don't plan cues further out than this
	SolverIterations     int     `yaml:"solver_iterations"`
	FallbackLeadFraction float64 `yaml:"fallback_lead_fraction"` // late-shot aim lead floor, as fraction of min_lead
	CandidateYWeight     float64 `yaml:"candidate_y_weight"`
	CandidateXWeight     float64 `yaml:"candidate_x_weight"`
	HitTolerance         float64 `yaml:"hit_tolerance"` // extra radius when resolving cue hits
}

// ScoringConfig holds score bookkeeping parameters.
type ScoringConfig struct {
	CueHitBase    int `yaml:"cue_hit_base"`   // score += base * combo on a cue hit
	CollisionKill int `yaml:"collision_kill"` // flat score for a non-cue kill
}

// WeaponsConfig holds per-weapon tuning.
type WeaponsConfig struct {
	Primary  PrimaryConfig `yaml:"primary"`
	CueLaser LaserConfig   `yaml:"cue_laser"`
	Cleanup  CleanupConfig `yaml:"cleanup_laser"`
	Missile  MissileConfig `yaml:"missile"`
	Flak     FlakConfig    `yaml:"flak"`
}

// PrimaryConfig holds the continuous-fire laser parameters.
type PrimaryConfig struct {
	Speed        float64 `yaml:"speed"`
	BaseInterval float64 `yaml:"base_interval"`
	MinInterval  float64 `yaml:"min_interval"`
	MaxInterval  float64 `yaml:"max_interval"`
	LockWindow   float64 `yaml:"lock_window"` // sticky target lock duration
	Range        float64 `yaml:"range"`
	Radius       float64 `yaml:"radius"`
	Lifetime     float64 `yaml:"lifetime"`
	Weight       int     `yaml:"weight"`
}

// LaserConfig holds cue-laser parameters.
type LaserConfig struct {
	Speed    float64 `yaml:"speed"`
	Radius   float64 `yaml:"radius"`
	Lifetime float64 `yaml:"lifetime"`
	Weight   int     `yaml:"weight"`
}

// CleanupConfig holds the projectile-less cue laser parameters.
type CleanupConfig struct {
	BeamLifetime float64 `yaml:"beam_lifetime"`
	Weight       int     `yaml:"weight"`
}

// MissileConfig holds homing-missile parameters.
type MissileConfig struct {
	BaseLead     float64 `yaml:"base_lead"` // preferred flight time
	MinLead      float64 `yaml:"min_lead"`
	Radius       float64 `yaml:"radius"`
	Lifetime     float64 `yaml:"lifetime"`
	MaxLoopTurns int     `yaml:"max_loop_turns"`
	PathVariants int     `yaml:"path_variants"`
	Weight       int     `yaml:"weight"`
}

// FlakConfig holds flak-burst parameters.
type FlakConfig struct {
	Speed     float64 `yaml:"speed"`
	Pellets   int     `yaml:"pellets"`
	SpreadDeg float64 `yaml:"spread_deg"`
	Radius    float64 `yaml:"radius"`
	Lifetime  float64 `yaml:"lifetime"`
	Weight    int     `yaml:"weight"`
}

// EnemiesConfig holds shared enemy parameters.
type EnemiesConfig struct {
	ShotSpeed        float64 `yaml:"shot_speed"`
	ShotRadius       float64 `yaml:"shot_radius"`
	ShotLifetime     float64 `yaml:"shot_lifetime"`
	MinFireInterval  float64 `yaml:"min_fire_interval"`
	MaxFireInterval  float64 `yaml:"max_fire_interval"`
	FlashDecay       float64 `yaml:"flash_decay"`
	CaterpillarDelay float64 `yaml:"caterpillar_delay"` // per-unit path age stagger
}

// ArchetypeConfig defines one enemy archetype. Patterns are drawn uniformly
// from the Patterns list at spawn.
type ArchetypeConfig struct {
	Name         string   `yaml:"name"`
	Speed        float64  `yaml:"speed"` // -X travel speed, world units/s
	Radius       float64  `yaml:"radius"`
	FireInterval float64  `yaml:"fire_interval"` // 0 = never fires
	Patterns     []string `yaml:"patterns"`
	AmplitudeMin float64  `yaml:"amplitude_min"`
	AmplitudeMax float64  `yaml:"amplitude_max"`
	FrequencyMin float64  `yaml:"frequency_min"`
	FrequencyMax float64  `yaml:"frequency_max"`
	FormationMin int      `yaml:"formation_min"` // 0/1 = single unit
	FormationMax int      `yaml:"formation_max"`
}

// Mood holds per-mood scalar multipliers.
type Mood struct {
	EnemySpeed        float64 `yaml:"enemy_speed"`
	SpawnCadence      float64 `yaml:"spawn_cadence"`
	FireCadence       float64 `yaml:"fire_cadence"`
	PlayerFireCadence float64 `yaml:"player_fire_cadence"`
}

// CombatDefaults holds the initial runtime combat configuration.
type CombatDefaults struct {
	Weapons        []string `yaml:"weapons"`
	Archetypes     []string `yaml:"archetypes"`
	SpawnRateScale float64  `yaml:"spawn_rate_scale"`
	FireRateScale  float64  `yaml:"fire_rate_scale"`
	ShotStyle      int      `yaml:"shot_style"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArchetypeIndex map[string]components.ArchetypeID // name -> id, enabled names only
	ArchetypeByID  [components.NumArchetypes]*ArchetypeConfig
	PatternsByID   [components.NumArchetypes][]components.PatternID
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config and applies
// defaults to underspecified archetypes.
func (c *Config) computeDerived() error {
	if c.Sim.DT <= 0 {
		c.Sim.DT = 1.0 / 60.0
	}
	if c.Sim.MaxDT <= 0 {
		c.Sim.MaxDT = 0.1
	}

	c.Derived.ArchetypeIndex = make(map[string]components.ArchetypeID, len(c.Archetypes))
	for i := range c.Archetypes {
		arch := &c.Archetypes[i]
		id, ok := components.ArchetypeByName(arch.Name)
		if !ok {
			return fmt.Errorf("unknown archetype %q in config", arch.Name)
		}
		if arch.Speed <= 0 {
			arch.Speed = 8.0
		}
		if arch.Radius <= 0 {
			arch.Radius = 0.8
		}
		if arch.FormationMin < 1 {
			arch.FormationMin = 1
		}
		if arch.FormationMax < arch.FormationMin {
			arch.FormationMax = arch.FormationMin
		}
		if len(arch.Patterns) == 0 {
			arch.Patterns = []string{"straight"}
		}

		patterns := make([]components.PatternID, 0, len(arch.Patterns))
		for _, name := range arch.Patterns {
			p, ok := components.PatternByName(name)
			if !ok {
				return fmt.Errorf("unknown motion pattern %q for archetype %q", name, arch.Name)
			}
			patterns = append(patterns, p)
		}

		c.Derived.ArchetypeIndex[arch.Name] = id
		c.Derived.ArchetypeByID[id] = arch
		c.Derived.PatternsByID[id] = patterns
	}

	if c.Derived.ArchetypeByID[components.ArchetypeDrone] == nil {
		return fmt.Errorf("config must define the %q archetype (roster fallback)", components.ArchetypeDrone.String())
	}

	return nil
}

// MoodOrDefault returns the multipliers for the named mood, falling back to
// neutral scalars for unknown names.
func (c *Config) MoodOrDefault(name string) Mood {
	if m, ok := c.Moods[name]; ok {
		return m
	}
	return Mood{EnemySpeed: 1, SpawnCadence: 1, FireCadence: 1, PlayerFireCadence: 1}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
