// Package components defines ECS components for the simulation.
package components

// ArchetypeID identifies an enemy archetype. The set is closed; dispatch is
// by table lookup, never reflection.
type ArchetypeID uint8

const (
	ArchetypeDrone ArchetypeID = iota
	ArchetypeDarter
	ArchetypeCaterpillar
	ArchetypeGunship

	NumArchetypes
)

// archetypeNames maps ArchetypeID to its config/yaml name.
var archetypeNames = [NumArchetypes]string{"drone", "darter", "caterpillar", "gunship"}

func (a ArchetypeID) String() string {
	if a < NumArchetypes {
		return archetypeNames[a]
	}
	return "unknown"
}

// ArchetypeByName resolves a config name to an ArchetypeID.
func ArchetypeByName(name string) (ArchetypeID, bool) {
	for i, n := range archetypeNames {
		if n == name {
			return ArchetypeID(i), true
		}
	}
	return 0, false
}

// WeaponID identifies a ship weapon module.
type WeaponID uint8

const (
	WeaponPrimary WeaponID = iota
	WeaponCueLaser
	WeaponCleanupLaser
	WeaponMissile
	WeaponFlak

	NumWeapons
)

var weaponNames = [NumWeapons]string{"primary", "cue_laser", "cleanup_laser", "missile", "flak"}

func (w WeaponID) String() string {
	if w < NumWeapons {
		return weaponNames[w]
	}
	return "unknown"
}

// WeaponByName resolves a config name to a WeaponID.
func WeaponByName(name string) (WeaponID, bool) {
	for i, n := range weaponNames {
		if n == name {
			return WeaponID(i), true
		}
	}
	return 0, false
}

// PatternID identifies an enemy motion pattern. Patterns are pure functions
// of path age; see systems.PatternOffset.
type PatternID uint8

const (
	PatternStraight PatternID = iota
	PatternSine
	PatternZigzag
	PatternWeave
	PatternArc
	PatternCorkscrew

	NumPatterns
)

var patternNames = [NumPatterns]string{"straight", "sine", "zigzag", "weave", "arc", "corkscrew"}

func (p PatternID) String() string {
	if p < NumPatterns {
		return patternNames[p]
	}
	return "unknown"
}

// PatternByName resolves a config name to a PatternID.
func PatternByName(name string) (PatternID, bool) {
	for i, n := range patternNames {
		if n == name {
			return PatternID(i), true
		}
	}
	return 0, false
}

// Position is an entity's world position. X is depth (enemies travel -X
// toward the ship), Y is lateral, Z is carried for the renderer.
type Position struct {
	X, Y, Z float64
}

// Velocity is an entity's velocity in world units per second.
type Velocity struct {
	X, Y, Z float64
}

// Body holds collision geometry.
type Body struct {
	Radius float64
}

// Enemy holds enemy-specific state. Lateral position is an absolute function
// of age (BaseY plus the pattern offset), so prediction and per-tick update
// evaluate the same expression.
type Enemy struct {
	ID        uint32
	Archetype ArchetypeID
	Pattern   PatternID

	// Motion pattern parameters
	BaseY         float64
	Phase         float64
	Amplitude     float64
	Frequency     float64
	PathAgeOffset float64 // staggers formation units along a shared path

	Age          float64
	FireCooldown float64 // seconds until the next shot, for firing archetypes

	// Cue assignment. At most one pending cue may claim an enemy.
	HasScheduledCue  bool
	ScheduledCueTime float64
	CuePrimed        bool // set by the cleanup laser; resolution destroys primed enemies

	Flash   float64 // damage flash, decays linearly per tick
	Entered bool    // has crossed the view bound at least once
}

// Shot is a player-fired projectile.
type Shot struct {
	ID      uint32
	Age     float64
	MaxLife float64
	IsCue   bool // fired to land on a musical cue (scoring/visual provenance)
	IsFlak  bool
}

// Missile extends a Shot entity with homing-missile state. The loop fields
// are consumed only by the renderer.
type Missile struct {
	TargetID uint32
	CueTime  float64

	LaunchX, LaunchY, LaunchZ float64
	TargetX, TargetY, TargetZ float64

	LoopTurns   int
	LoopDir     int // +1 or -1
	PathVariant int
}

// EnemyShot is an enemy-fired projectile. No cue semantics.
type EnemyShot struct {
	ID      uint32
	Age     float64
	MaxLife float64
	Style   uint8 // visual style tag from CombatConfig
}

// Explosion is short-lived state owned by the simulation; rendering owns its
// appearance.
type Explosion struct {
	ID       uint32
	Age      float64
	Lifetime float64
	Scale    float64
}

// Beam is a transient laser-beam visual anchored at fire time.
type Beam struct {
	ID       uint32
	Age      float64
	Lifetime float64
	Weapon   WeaponID

	FromX, FromY, FromZ float64
	ToX, ToY, ToZ       float64
}
