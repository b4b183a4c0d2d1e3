package config

import (
	"testing"

	"github.com/pthm-cable/cuefire/components"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sim.DT <= 0 {
		t.Errorf("dt = %v, want > 0", cfg.Sim.DT)
	}
	if cfg.World.SpawnX <= cfg.World.ShipX {
		t.Errorf("spawn_x %v must be ahead of ship_x %v", cfg.World.SpawnX, cfg.World.ShipX)
	}
	if cfg.World.KillX >= cfg.World.ShipX {
		t.Errorf("kill_x %v must be behind ship_x %v", cfg.World.KillX, cfg.World.ShipX)
	}
	if cfg.Scheduler.MinLead >= cfg.Scheduler.MaxLead {
		t.Errorf("min_lead %v must be below max_lead %v", cfg.Scheduler.MinLead, cfg.Scheduler.MaxLead)
	}
}

func TestLoadDefaultsDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := cfg.Derived.ArchetypeIndex["drone"]; !ok {
		t.Fatal("drone archetype missing from derived index")
	}

	for id := components.ArchetypeID(0); id < components.NumArchetypes; id++ {
		arch := cfg.Derived.ArchetypeByID[id]
		if arch == nil {
			t.Errorf("archetype %s has no config entry", id)
			continue
		}
		if len(cfg.Derived.PatternsByID[id]) == 0 {
			t.Errorf("archetype %s has no resolved patterns", id)
		}
		if arch.FormationMin < 1 || arch.FormationMax < arch.FormationMin {
			t.Errorf("archetype %s formation bounds [%d, %d] invalid", id, arch.FormationMin, arch.FormationMax)
		}
	}
}

func TestLoadDefaultsWeaponWeights(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	weights := []struct {
		name   string
		weight int
	}{
		{"primary", cfg.Weapons.Primary.Weight},
		{"cue_laser", cfg.Weapons.CueLaser.Weight},
		{"cleanup_laser", cfg.Weapons.Cleanup.Weight},
		{"missile", cfg.Weapons.Missile.Weight},
		{"flak", cfg.Weapons.Flak.Weight},
	}
	for _, w := range weights {
		if w.weight < 1 {
			t.Errorf("%s weight = %d, want >= 1", w.name, w.weight)
		}
	}
}

func TestMoodOrDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m := cfg.MoodOrDefault("aggressive"); m.EnemySpeed <= 0 {
		t.Errorf("aggressive enemy_speed = %v, want > 0", m.EnemySpeed)
	}

	neutral := cfg.MoodOrDefault("no-such-mood")
	if neutral.EnemySpeed != 1 || neutral.SpawnCadence != 1 || neutral.FireCadence != 1 || neutral.PlayerFireCadence != 1 {
		t.Errorf("unknown mood = %+v, want neutral scalars", neutral)
	}
}

func TestComputeDerivedRejectsUnknownNames(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bad := *cfg
	bad.Archetypes = []ArchetypeConfig{{Name: "kraken"}}
	if err := bad.computeDerived(); err == nil {
		t.Error("unknown archetype name accepted")
	}

	bad = *cfg
	bad.Archetypes = []ArchetypeConfig{{Name: "drone", Patterns: []string{"wobble"}}}
	if err := bad.computeDerived(); err == nil {
		t.Error("unknown pattern name accepted")
	}
}
