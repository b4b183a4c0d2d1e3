package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated combat statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Score state at window end
	Score    int `csv:"score"`
	Combo    int `csv:"combo"`
	MaxCombo int `csv:"max_combo"`

	// Events during window
	EnemiesSpawned int `csv:"enemies_spawned"`
	EnemiesKilled  int `csv:"enemies_killed"`
	ShotsFired     int `csv:"shots_fired"`

	// Cue outcomes
	CueHits      int     `csv:"cue_hits"`
	CueMisses    int     `csv:"cue_misses"`
	CueHitRate   float64 `csv:"cue_hit_rate"`
	CueErrMeanMs float64 `csv:"cue_err_mean_ms"`
	CueErrP50Ms  float64 `csv:"cue_err_p50_ms"`
	CueErrP90Ms  float64 `csv:"cue_err_p90_ms"`

	ShieldHits int `csv:"shield_hits"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeErrorStats calculates mean and percentiles from timing errors.
func ComputeErrorStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("score", s.Score),
		slog.Int("combo", s.Combo),
		slog.Int("max_combo", s.MaxCombo),
		slog.Int("enemies_spawned", s.EnemiesSpawned),
		slog.Int("enemies_killed", s.EnemiesKilled),
		slog.Int("shots_fired", s.ShotsFired),
		slog.Int("cue_hits", s.CueHits),
		slog.Int("cue_misses", s.CueMisses),
		slog.Float64("cue_hit_rate", s.CueHitRate),
		slog.Float64("cue_err_mean_ms", s.CueErrMeanMs),
		slog.Float64("cue_err_p50_ms", s.CueErrP50Ms),
		slog.Float64("cue_err_p90_ms", s.CueErrP90Ms),
		slog.Int("shield_hits", s.ShieldHits),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"score", s.Score,
		"combo", s.Combo,
		"max_combo", s.MaxCombo,
		"enemies_spawned", s.EnemiesSpawned,
		"enemies_killed", s.EnemiesKilled,
		"shots_fired", s.ShotsFired,
		"cue_hits", s.CueHits,
		"cue_misses", s.CueMisses,
		"cue_hit_rate", s.CueHitRate,
		"cue_err_mean_ms", s.CueErrMeanMs,
		"cue_err_p50_ms", s.CueErrP50Ms,
		"cue_err_p90_ms", s.CueErrP90Ms,
		"shield_hits", s.ShieldHits,
	)
}
