package telemetry

// Collector accumulates combat events within time windows and produces
// WindowStats. All methods are cheap counter updates so the collector can
// stay attached during precompute runs.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int64
	windowStartTime float64

	// Event counters for current window
	enemiesSpawned int
	enemiesKilled  int
	shotsFired     int
	cueHits        int
	cueMisses      int
	shieldHits     int
	cueErrorsMs    []float64

	// End-of-tick state, sampled by EndTick
	lastTick  int64
	lastTime  float64
	lastScore int
	lastCombo int
	maxCombo  int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordEnemySpawned records one enemy entering the corridor.
func (c *Collector) RecordEnemySpawned() {
	c.enemiesSpawned++
}

// RecordEnemyDestroyed records one enemy kill, cue or otherwise.
func (c *Collector) RecordEnemyDestroyed() {
	c.enemiesKilled++
}

// RecordShotFired records one player projectile.
func (c *Collector) RecordShotFired() {
	c.shotsFired++
}

// RecordCueResolved records a cue scored as a hit, with its timing error.
func (c *Collector) RecordCueResolved(errMs float64) {
	c.cueHits++
	c.cueErrorsMs = append(c.cueErrorsMs, errMs)
}

// RecordCueMissed records a cue scored as a miss.
func (c *Collector) RecordCueMissed() {
	c.cueMisses++
}

// RecordShieldHit records an enemy shot absorbed by the ship shield.
func (c *Collector) RecordShieldHit() {
	c.shieldHits++
}

// EndTick samples end-of-tick state. Called by the simulation after each
// completed step.
func (c *Collector) EndTick(tick int64, timeSec float64, score, combo int) {
	c.lastTick = tick
	c.lastTime = timeSec
	c.lastScore = score
	c.lastCombo = combo
	if combo > c.maxCombo {
		c.maxCombo = combo
	}
}

// ShouldFlush reports whether the current window has elapsed.
func (c *Collector) ShouldFlush() bool {
	return c.lastTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush() WindowStats {
	resolved := c.cueHits + c.cueMisses
	var hitRate float64
	if resolved > 0 {
		hitRate = float64(c.cueHits) / float64(resolved)
	}

	errMean, errP50, errP90 := ComputeErrorStats(c.cueErrorsMs)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   c.lastTick,
		SimTimeSec:      c.lastTime,

		Score:    c.lastScore,
		Combo:    c.lastCombo,
		MaxCombo: c.maxCombo,

		EnemiesSpawned: c.enemiesSpawned,
		EnemiesKilled:  c.enemiesKilled,
		ShotsFired:     c.shotsFired,

		CueHits:      c.cueHits,
		CueMisses:    c.cueMisses,
		CueHitRate:   hitRate,
		CueErrMeanMs: errMean,
		CueErrP50Ms:  errP50,
		CueErrP90Ms:  errP90,

		ShieldHits: c.shieldHits,
	}

	c.windowStartTick = c.lastTick
	c.windowStartTime = c.lastTime
	c.enemiesSpawned = 0
	c.enemiesKilled = 0
	c.shotsFired = 0
	c.cueHits = 0
	c.cueMisses = 0
	c.shieldHits = 0
	c.cueErrorsMs = c.cueErrorsMs[:0]

	return stats
}

// Reset clears all state, including the max-combo watermark. Called when a
// new track run starts.
func (c *Collector) Reset() {
	c.windowStartTick = 0
	c.windowStartTime = 0
	c.enemiesSpawned = 0
	c.enemiesKilled = 0
	c.shotsFired = 0
	c.cueHits = 0
	c.cueMisses = 0
	c.shieldHits = 0
	c.cueErrorsMs = c.cueErrorsMs[:0]
	c.lastTick = 0
	c.lastTime = 0
	c.lastScore = 0
	c.lastCombo = 0
	c.maxCombo = 0
}
