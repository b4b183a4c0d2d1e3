package sim

import (
	"reflect"
	"testing"
)

// TestStageOrder pins the pipeline execution order; scheduling semantics
// depend on it.
func TestStageOrder(t *testing.T) {
	s := newTestSim(t, 1)

	want := []string{
		"shipMotion",
		"enemySpawn",
		"cuePlanning",
		"weaponFire",
		"enemyUpdate",
		"projectileUpdate",
		"collision",
		"cueResolution",
		"cleanup",
	}
	if got := s.StageIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("stage order %v, want %v", got, want)
	}
}
