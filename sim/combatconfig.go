package sim

import (
	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/systems"
)

// Scale clamp bounds for spawn/fire rate scalars.
const (
	minRateScale = 0.1
	maxRateScale = 3.0
)

// CombatConfig describes which ship weapons and enemy archetypes are active,
// plus global rate scalars. It is supplied by the UI layer, normalized once
// per change, read by every module every tick, and never mutated by the
// simulation itself.
type CombatConfig struct {
	Weapons        [components.NumWeapons]bool
	Archetypes     []components.ArchetypeID
	SpawnRateScale float64
	FireRateScale  float64
	ShotStyle      uint8
}

// CombatConfigPatch carries partial overrides; nil fields keep the current
// value. Archetypes replaces the whole roster when non-nil.
type CombatConfigPatch struct {
	Weapons        map[components.WeaponID]bool
	Archetypes     []components.ArchetypeID
	SpawnRateScale *float64
	FireRateScale  *float64
	ShotStyle      *uint8
}

// defaultCombatConfig builds the initial combat configuration from the yaml
// defaults.
func defaultCombatConfig(cfg *config.Config) CombatConfig {
	var c CombatConfig
	for _, name := range cfg.Combat.Weapons {
		if id, ok := components.WeaponByName(name); ok {
			c.Weapons[id] = true
		}
	}
	for _, name := range cfg.Combat.Archetypes {
		if id, ok := components.ArchetypeByName(name); ok {
			c.Archetypes = append(c.Archetypes, id)
		}
	}
	c.SpawnRateScale = cfg.Combat.SpawnRateScale
	c.FireRateScale = cfg.Combat.FireRateScale
	c.ShotStyle = uint8(cfg.Combat.ShotStyle)
	c.normalize(cfg)
	return c
}

// normalize clamps scalars, deduplicates the archetype roster (preserving
// order, dropping archetypes absent from the config), and guarantees at
// least one archetype stays enabled by falling back to the default.
func (c *CombatConfig) normalize(cfg *config.Config) {
	c.SpawnRateScale = systems.Clamp(c.SpawnRateScale, minRateScale, maxRateScale)
	c.FireRateScale = systems.Clamp(c.FireRateScale, minRateScale, maxRateScale)

	var seen [components.NumArchetypes]bool
	roster := c.Archetypes[:0]
	for _, id := range c.Archetypes {
		if id >= components.NumArchetypes || seen[id] {
			continue
		}
		if cfg.Derived.ArchetypeByID[id] == nil {
			continue
		}
		seen[id] = true
		roster = append(roster, id)
	}
	if len(roster) == 0 {
		roster = append(roster, components.ArchetypeDrone)
	}
	c.Archetypes = roster
}

// SetCombatConfig merges a patch onto the current combat configuration,
// normalizes the result, and rebuilds the weapon assignment pool. Must be
// called between ticks.
func (s *Sim) SetCombatConfig(patch CombatConfigPatch) {
	c := s.combat

	if patch.Weapons != nil {
		for id := components.WeaponID(0); id < components.NumWeapons; id++ {
			if v, ok := patch.Weapons[id]; ok {
				c.Weapons[id] = v
			}
		}
	}
	if patch.Archetypes != nil {
		c.Archetypes = append([]components.ArchetypeID(nil), patch.Archetypes...)
	} else {
		c.Archetypes = append([]components.ArchetypeID(nil), s.combat.Archetypes...)
	}
	if patch.SpawnRateScale != nil && *patch.SpawnRateScale == *patch.SpawnRateScale {
		c.SpawnRateScale = *patch.SpawnRateScale
	}
	if patch.FireRateScale != nil && *patch.FireRateScale == *patch.FireRateScale {
		c.FireRateScale = *patch.FireRateScale
	}
	if patch.ShotStyle != nil {
		c.ShotStyle = *patch.ShotStyle
	}

	c.normalize(s.cfg)
	s.combat = c
	s.weapons.rebuildPool(&s.combat)
}

// CombatConfig returns a copy of the active combat configuration.
func (s *Sim) CombatConfig() CombatConfig {
	c := s.combat
	c.Archetypes = append([]components.ArchetypeID(nil), s.combat.Archetypes...)
	return c
}
