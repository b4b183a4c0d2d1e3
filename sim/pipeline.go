package sim

import "sort"

// stage is one pass of the per-tick pipeline. Stages are sorted ascending by
// Order once at construction and then executed unconditionally each tick.
// Order is a total, stable ordering: stages must not depend on call order
// beyond what Order encodes, so new stages can be inserted by order value
// alone.
type stage struct {
	ID    string
	Name  string
	Order int
	Init  func()       // optional, runs once at construction
	Reset func()       // optional, runs on StartTrackRun
	Step  func(dt float64)
}

// Stage orders. Gaps leave room for insertion.
const (
	orderShipMotion       = 10
	orderEnemySpawn       = 20
	orderCuePlanning      = 30
	orderWeaponFire       = 40
	orderEnemyUpdate      = 50
	orderProjectileUpdate = 60
	orderCollision        = 70
	orderCueResolution    = 80
	orderCleanup          = 90
)

// registerStages builds the pipeline. Update this when adding new stages.
func (s *Sim) registerStages() {
	s.stages = []*stage{
		{ID: "shipMotion", Name: "Ship Motion", Order: orderShipMotion, Step: s.stepShipMotion},
		{ID: "enemySpawn", Name: "Enemy Spawn", Order: orderEnemySpawn, Step: s.stepEnemySpawn},
		{ID: "cuePlanning", Name: "Cue Planning", Order: orderCuePlanning, Step: s.stepCuePlanning},
		{ID: "weaponFire", Name: "Weapon Fire", Order: orderWeaponFire, Reset: s.resetWeaponState, Step: s.stepWeaponFire},
		{ID: "enemyUpdate", Name: "Enemy Update", Order: orderEnemyUpdate, Step: s.stepEnemyUpdate},
		{ID: "projectileUpdate", Name: "Projectile Update", Order: orderProjectileUpdate, Step: s.stepProjectileUpdate},
		{ID: "collision", Name: "Collision", Order: orderCollision, Step: s.stepCollision},
		{ID: "cueResolution", Name: "Cue Resolution", Order: orderCueResolution, Step: s.stepCueResolution},
		{ID: "cleanup", Name: "Cleanup", Order: orderCleanup, Step: s.stepCleanup},
	}

	sort.SliceStable(s.stages, func(i, j int) bool {
		return s.stages[i].Order < s.stages[j].Order
	})
}

// StageIDs returns the pipeline stage IDs in execution order.
func (s *Sim) StageIDs() []string {
	ids := make([]string, len(s.stages))
	for i, st := range s.stages {
		ids[i] = st.ID
	}
	return ids
}
