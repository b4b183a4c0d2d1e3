package sim

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/cuefire/components"
)

func TestSetCombatConfigClampsScales(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above max", 99, maxRateScale},
		{"below min", 0.001, minRateScale},
		{"in range", 1.5, 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSim(t, 1)
			v := tc.in
			s.SetCombatConfig(CombatConfigPatch{SpawnRateScale: &v, FireRateScale: &v})

			got := s.CombatConfig()
			if got.SpawnRateScale != tc.want {
				t.Errorf("SpawnRateScale = %v, want %v", got.SpawnRateScale, tc.want)
			}
			if got.FireRateScale != tc.want {
				t.Errorf("FireRateScale = %v, want %v", got.FireRateScale, tc.want)
			}
		})
	}
}

func TestSetCombatConfigNormalizesRoster(t *testing.T) {
	tests := []struct {
		name string
		in   []components.ArchetypeID
		want []components.ArchetypeID
	}{
		{
			"duplicates collapse",
			[]components.ArchetypeID{components.ArchetypeDrone, components.ArchetypeDrone, components.ArchetypeGunship},
			[]components.ArchetypeID{components.ArchetypeDrone, components.ArchetypeGunship},
		},
		{
			"unknown ids dropped",
			[]components.ArchetypeID{components.NumArchetypes + 3, components.ArchetypeDarter},
			[]components.ArchetypeID{components.ArchetypeDarter},
		},
		{
			"empty roster falls back to drone",
			[]components.ArchetypeID{components.NumArchetypes},
			[]components.ArchetypeID{components.ArchetypeDrone},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSim(t, 1)
			s.SetCombatConfig(CombatConfigPatch{Archetypes: tc.in})

			got := s.CombatConfig().Archetypes
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("roster = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSetCombatConfigPartialPatch(t *testing.T) {
	s := newTestSim(t, 1)
	before := s.CombatConfig()

	style := uint8(2)
	s.SetCombatConfig(CombatConfigPatch{ShotStyle: &style})

	after := s.CombatConfig()
	if after.ShotStyle != 2 {
		t.Errorf("ShotStyle = %d, want 2", after.ShotStyle)
	}
	if !reflect.DeepEqual(after.Archetypes, before.Archetypes) {
		t.Errorf("roster changed by unrelated patch: %v -> %v", before.Archetypes, after.Archetypes)
	}
	if after.Weapons != before.Weapons {
		t.Errorf("weapons changed by unrelated patch")
	}
}

// TestWeaponPoolWeights verifies the weighted round-robin pool: each enabled
// cue weapon appears weight times, the primary never appears.
func TestWeaponPoolWeights(t *testing.T) {
	s := newTestSim(t, 1)

	counts := make(map[components.WeaponID]int)
	for _, id := range s.weapons.pool {
		counts[id]++
	}

	if counts[components.WeaponPrimary] != 0 {
		t.Error("primary laser present in the cue assignment pool")
	}
	want := map[components.WeaponID]int{
		components.WeaponCueLaser:     s.cfg.Weapons.CueLaser.Weight,
		components.WeaponCleanupLaser: s.cfg.Weapons.Cleanup.Weight,
		components.WeaponMissile:      s.cfg.Weapons.Missile.Weight,
		components.WeaponFlak:         s.cfg.Weapons.Flak.Weight,
	}
	for id, w := range want {
		if counts[id] != w {
			t.Errorf("%s appears %d times in pool, want %d", id, counts[id], w)
		}
	}
}

func TestDisabledWeaponLeavesPool(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetCombatConfig(CombatConfigPatch{
		Weapons: map[components.WeaponID]bool{components.WeaponMissile: false},
	})

	for _, id := range s.weapons.pool {
		if id == components.WeaponMissile {
			t.Fatal("disabled missile still in assignment pool")
		}
	}
}

func TestNextAssignRoundRobin(t *testing.T) {
	s := newTestSim(t, 1)
	pool := append([]components.WeaponID(nil), s.weapons.pool...)
	if len(pool) == 0 {
		t.Fatal("empty default assignment pool")
	}

	// Two full passes must repeat the pool sequence exactly.
	for i := 0; i < 2*len(pool); i++ {
		id, ok := s.weapons.nextAssign()
		if !ok {
			t.Fatal("nextAssign failed with a non-empty pool")
		}
		if want := pool[i%len(pool)]; id != want {
			t.Fatalf("assignment %d = %s, want %s", i, id, want)
		}
	}
}

func TestNextAssignEmptyPool(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetCombatConfig(CombatConfigPatch{
		Weapons: map[components.WeaponID]bool{
			components.WeaponCueLaser:     false,
			components.WeaponCleanupLaser: false,
			components.WeaponMissile:      false,
			components.WeaponFlak:         false,
		},
	})

	if _, ok := s.weapons.nextAssign(); ok {
		t.Error("nextAssign succeeded with every cue weapon disabled")
	}
}
