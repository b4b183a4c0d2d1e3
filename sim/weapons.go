package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cuefire/components"
	"github.com/pthm-cable/cuefire/config"
)

// enemyTarget is a stable snapshot of a targetable enemy, captured outside
// query iteration so weapons can spawn entities safely.
type enemyTarget struct {
	Entity ecs.Entity
	ID     uint32
	Enemy  components.Enemy
	Pos    components.Position
	Vel    components.Velocity
	Radius float64
}

// WeaponModule is a ship weapon capability record. PlanCue commits a fire
// event for a cue (possibly an immediate fallback shot) and reports whether
// the cue was claimed; FireQueuedShot executes a previously planned shot;
// Step runs continuous behavior independent of cues.
type WeaponModule interface {
	ID() components.WeaponID
	AssignmentWeight() int
	IsEnabled(combat *CombatConfig) bool
	PlanCue(s *Sim, target *enemyTarget, cueTime float64) bool
	CatchupLead(s *Sim, baseLead float64) float64
	FireQueuedShot(s *Sim, shot PlannedShot)
	Step(s *Sim, dt float64)
}

// baseWeapon provides no-op defaults for the optional hooks so module
// implementations only override what they use.
type baseWeapon struct{}

func (baseWeapon) CatchupLead(_ *Sim, baseLead float64) float64 { return baseLead }
func (baseWeapon) FireQueuedShot(_ *Sim, _ PlannedShot)         {}
func (baseWeapon) Step(_ *Sim, _ float64)                       {}

// weaponRegistry holds the five weapon modules keyed by the closed WeaponID
// enum, plus the weighted round-robin assignment pool. Constructed per Sim
// so multiple simulations can coexist.
type weaponRegistry struct {
	modules [components.NumWeapons]WeaponModule

	// Flattened assignment pool: each enabled module appears
	// AssignmentWeight times. Rebuilt on combat-config normalization;
	// cursor advances per assignment. Deterministic and auditable - no
	// randomness in cue-to-weapon assignment.
	pool   []components.WeaponID
	cursor int
}

func newWeaponRegistry(cfg *config.Config) *weaponRegistry {
	r := &weaponRegistry{}
	r.modules[components.WeaponPrimary] = &primaryLaser{cfg: &cfg.Weapons.Primary}
	r.modules[components.WeaponCueLaser] = &cueLaser{cfg: &cfg.Weapons.CueLaser}
	r.modules[components.WeaponCleanupLaser] = &cleanupLaser{cfg: &cfg.Weapons.Cleanup}
	r.modules[components.WeaponMissile] = &missileLauncher{cfg: &cfg.Weapons.Missile}
	r.modules[components.WeaponFlak] = &flakBurst{cfg: &cfg.Weapons.Flak}
	return r
}

func (r *weaponRegistry) get(id components.WeaponID) WeaponModule {
	if id < components.NumWeapons {
		return r.modules[id]
	}
	return nil
}

// rebuildPool rebuilds the weighted assignment pool from the combat config.
// The primary laser runs its own cadence loop and never serves cues, so it
// is excluded.
func (r *weaponRegistry) rebuildPool(combat *CombatConfig) {
	r.pool = r.pool[:0]
	r.cursor = 0
	for id := components.WeaponID(0); id < components.NumWeapons; id++ {
		m := r.modules[id]
		if id == components.WeaponPrimary || !m.IsEnabled(combat) {
			continue
		}
		for i := 0; i < m.AssignmentWeight(); i++ {
			r.pool = append(r.pool, id)
		}
	}
}

// nextAssign picks the next weapon for a cue via weighted round robin.
// Returns false when no cue-capable weapon is enabled.
func (r *weaponRegistry) nextAssign() (components.WeaponID, bool) {
	if len(r.pool) == 0 {
		return 0, false
	}
	id := r.pool[r.cursor%len(r.pool)]
	r.cursor++
	return id, true
}

// weaponResetter is implemented by modules with per-run state.
type weaponResetter interface{ Reset() }

// resetWeaponState clears per-run module state and rewinds the assignment
// cursor on StartTrackRun.
func (s *Sim) resetWeaponState() {
	for _, m := range s.weapons.modules {
		if r, ok := m.(weaponResetter); ok {
			r.Reset()
		}
	}
	s.weapons.cursor = 0
}

// stepWeaponFire runs the continuous weapon loops and executes all planned
// cue shots that have come due.
func (s *Sim) stepWeaponFire(dt float64) {
	for id := components.WeaponID(0); id < components.NumWeapons; id++ {
		if m := s.weapons.modules[id]; m.IsEnabled(&s.combat) {
			m.Step(s, dt)
		}
	}

	s.fireQueuedCueShots()
}

// collectTargets snapshots all live enemies matching keep. Collected before
// any entity mutation; the result is safe to use while spawning.
func (s *Sim) collectTargets(keep func(*components.Enemy, *components.Position) bool) []enemyTarget {
	var targets []enemyTarget

	query := s.enemyFilter.Query()
	for query.Next() {
		pos, vel, body, enemy := query.Get()
		if keep != nil && !keep(enemy, pos) {
			continue
		}
		targets = append(targets, enemyTarget{
			Entity: query.Entity(),
			ID:     enemy.ID,
			Enemy:  *enemy,
			Pos:    *pos,
			Vel:    *vel,
			Radius: body.Radius,
		})
	}

	return targets
}

// targetByID re-resolves a planned shot's enemy. ok is false when the enemy
// died between planning and firing.
func (s *Sim) targetByID(id uint32) (enemyTarget, bool) {
	entity, ok := s.enemyByID[id]
	if !ok {
		return enemyTarget{}, false
	}
	enemy := s.enemyMap.Get(entity)
	pos := s.posMap.Get(entity)
	vel := s.velMap.Get(entity)
	body := s.bodyMap.Get(entity)
	if enemy == nil || pos == nil || vel == nil || body == nil {
		return enemyTarget{}, false
	}
	return enemyTarget{
		Entity: entity,
		ID:     id,
		Enemy:  *enemy,
		Pos:    *pos,
		Vel:    *vel,
		Radius: body.Radius,
	}, true
}
