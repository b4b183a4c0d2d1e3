package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowFlush(t *testing.T) {
	c := NewCollector(2.0)

	c.RecordEnemySpawned()
	c.RecordEnemySpawned()
	c.RecordEnemyDestroyed()
	c.RecordShotFired()
	c.RecordCueResolved(10)
	c.RecordCueResolved(30)
	c.RecordCueMissed()
	c.RecordShieldHit()
	c.EndTick(120, 2.0, 300, 2)

	if !c.ShouldFlush() {
		t.Fatal("window elapsed but ShouldFlush is false")
	}

	stats := c.Flush()
	if stats.WindowEndTick != 120 || stats.SimTimeSec != 2.0 {
		t.Errorf("window end tick=%d time=%v, want 120/2.0", stats.WindowEndTick, stats.SimTimeSec)
	}
	if stats.EnemiesSpawned != 2 || stats.EnemiesKilled != 1 {
		t.Errorf("spawned=%d killed=%d, want 2/1", stats.EnemiesSpawned, stats.EnemiesKilled)
	}
	if stats.CueHits != 2 || stats.CueMisses != 1 {
		t.Errorf("hits=%d misses=%d, want 2/1", stats.CueHits, stats.CueMisses)
	}
	if math.Abs(stats.CueHitRate-2.0/3.0) > 1e-12 {
		t.Errorf("hit rate %v, want 2/3", stats.CueHitRate)
	}
	if math.Abs(stats.CueErrMeanMs-20) > 1e-12 {
		t.Errorf("err mean %v, want 20", stats.CueErrMeanMs)
	}
	if stats.Score != 300 || stats.Combo != 2 || stats.MaxCombo != 2 {
		t.Errorf("score=%d combo=%d max=%d, want 300/2/2", stats.Score, stats.Combo, stats.MaxCombo)
	}
	if stats.ShieldHits != 1 {
		t.Errorf("shield hits %d, want 1", stats.ShieldHits)
	}
}

func TestCollectorResetsBetweenWindows(t *testing.T) {
	c := NewCollector(1.0)

	c.RecordCueResolved(5)
	c.EndTick(60, 1.0, 100, 1)
	c.Flush()

	c.EndTick(120, 2.0, 150, 0)
	stats := c.Flush()

	if stats.CueHits != 0 {
		t.Errorf("hits carried across windows: %d", stats.CueHits)
	}
	if stats.WindowStartTick != 60 {
		t.Errorf("window start tick %d, want 60", stats.WindowStartTick)
	}
	// MaxCombo is a run-level watermark, not per window
	if stats.MaxCombo != 1 {
		t.Errorf("max combo %d, want 1", stats.MaxCombo)
	}
}

func TestCollectorShouldFlushBeforeWindow(t *testing.T) {
	c := NewCollector(5.0)
	c.EndTick(60, 1.0, 0, 0)
	if c.ShouldFlush() {
		t.Error("ShouldFlush true before the window elapsed")
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(1.0)
	c.RecordCueResolved(5)
	c.EndTick(600, 10.0, 900, 4)

	c.Reset()
	c.EndTick(60, 1.0, 10, 1)
	stats := c.Flush()

	if stats.CueHits != 0 || stats.MaxCombo != 1 || stats.WindowStartTick != 0 {
		t.Errorf("Reset left residual state: %+v", stats)
	}
}
