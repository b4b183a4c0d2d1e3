package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/sim"
	"github.com/pthm-cable/cuefire/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (<= 0 = fixed default)")
	mood := flag.String("mood", "driving", "Mood profile: calm, driving, aggressive")
	cuesPath := flag.String("cues", "", "CSV of cue times (empty = synthesize from -bpm)")
	intensityPath := flag.String("intensity", "", "CSV of time,intensity samples (empty = synthesize)")
	bpm := flag.Float64("bpm", 120, "Beat rate for synthesized cue timeline")
	duration := flag.Float64("duration", 60, "Track duration in seconds")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	cueTimes, err := loadCueTimeline(*cuesPath, *bpm, *duration)
	if err != nil {
		slog.Error("failed to load cue timeline", "path", *cuesPath, "error", err)
		os.Exit(1)
	}
	intensity, err := loadIntensityTimeline(*intensityPath, *duration)
	if err != nil {
		slog.Error("failed to load intensity timeline", "path", *intensityPath, "error", err)
		os.Exit(1)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector(statsWindowSec)

	s := sim.New(sim.Options{
		Config:    cfg,
		Seed:      *seed,
		Collector: collector,
	})
	s.StartTrackRun(cueTimes, intensity, sim.MoodProfile(*mood))

	slog.Info("starting track run",
		"seed", s.Seed(),
		"mood", s.Mood(),
		"cues", len(cueTimes),
		"duration", *duration,
		"stats_window", statsWindowSec,
	)

	start := time.Now()
	dt := cfg.Sim.DT
	for s.Time() < *duration {
		s.Step(dt)

		if collector.ShouldFlush() {
			stats := collector.Flush()
			if *logStats {
				stats.LogStats()
			}
			if err := om.WriteTelemetry(stats); err != nil {
				slog.Error("failed to write telemetry", "error", err)
				os.Exit(1)
			}
		}
	}

	snap := s.Snapshot()
	slog.Info("track run complete",
		"ticks", s.Tick(),
		"sim_time", s.Time(),
		"wall_time", time.Since(start).Seconds(),
		"score", snap.Score,
		"cue_hits", snap.CueResolved,
		"cue_misses", snap.CueMissed,
		"avg_cue_err_ms", snap.AvgCueErrorMs,
	)
}

type cueRecord struct {
	Time float64 `csv:"time"`
}

type intensityRecord struct {
	Time      float64 `csv:"time"`
	Intensity float64 `csv:"intensity"`
}

// loadCueTimeline reads cue times from a CSV file, or synthesizes an
// on-beat timeline from bpm when no file is given.
func loadCueTimeline(path string, bpm, duration float64) ([]float64, error) {
	if path == "" {
		return synthesizeCues(bpm, duration), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []cueRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, err
	}

	times := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Time
	}
	return times, nil
}

// synthesizeCues places a cue on every beat, starting one beat in.
func synthesizeCues(bpm, duration float64) []float64 {
	if bpm <= 0 {
		bpm = 120
	}
	beat := 60 / bpm

	var times []float64
	for t := beat; t < duration; t += beat {
		times = append(times, t)
	}
	return times
}

// loadIntensityTimeline reads intensity samples from a CSV file, or
// synthesizes a slow swell when no file is given.
func loadIntensityTimeline(path string, duration float64) ([]sim.IntensitySample, error) {
	if path == "" {
		return synthesizeIntensity(duration), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []intensityRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, err
	}

	timeline := make([]sim.IntensitySample, len(records))
	for i, r := range records {
		timeline[i] = sim.IntensitySample{TimeSec: r.Time, Intensity: r.Intensity}
	}
	return timeline, nil
}

// synthesizeIntensity builds a rising swell with a drop near the end,
// sampled every few seconds.
func synthesizeIntensity(duration float64) []sim.IntensitySample {
	const step = 4.0

	var timeline []sim.IntensitySample
	for t := 0.0; t <= duration; t += step {
		frac := t / duration
		v := 0.25 + 0.7*math.Sin(frac*math.Pi)
		timeline = append(timeline, sim.IntensitySample{TimeSec: t, Intensity: v})
	}
	return timeline
}
