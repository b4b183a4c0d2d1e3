package sim

import (
	"math"
	"testing"
)

func TestIntensityInterpolation(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetIntensityTimeline([]IntensitySample{
		{TimeSec: 0, Intensity: 0},
		{TimeSec: 10, Intensity: 1},
		{TimeSec: 20, Intensity: 0.5},
	})

	tests := []struct {
		name string
		at   float64
		want float64
	}{
		{"before first sample clamps", -5, 0},
		{"first sample", 0, 0},
		{"midpoint of first segment", 5, 0.5},
		{"second sample", 10, 1},
		{"midpoint of second segment", 15, 0.75},
		{"after last sample clamps", 99, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.intensityAt(tc.at); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("intensityAt(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestIntensityTimelineSanitizes(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetIntensityTimeline([]IntensitySample{
		{TimeSec: 5, Intensity: 2},          // clamped to 1
		{TimeSec: -1, Intensity: 0.5},       // dropped
		{TimeSec: math.NaN(), Intensity: 1}, // dropped
		{TimeSec: 1, Intensity: -0.5},       // clamped to 0
	})

	if len(s.intensity) != 2 {
		t.Fatalf("timeline length %d, want 2", len(s.intensity))
	}
	if s.intensity[0].TimeSec != 1 || s.intensity[0].Intensity != 0 {
		t.Errorf("first sample %+v, want t=1 i=0", s.intensity[0])
	}
	if s.intensity[1].TimeSec != 5 || s.intensity[1].Intensity != 1 {
		t.Errorf("second sample %+v, want t=5 i=1", s.intensity[1])
	}
}

func TestEmptyTimelineUsesDefaultIntensity(t *testing.T) {
	s := newTestSim(t, 1)
	if got := s.intensityAt(3); got != defaultIntensity {
		t.Errorf("intensityAt with no timeline = %v, want %v", got, defaultIntensity)
	}
}

func TestUnknownMoodFallsBack(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetMoodProfile("polka")
	if s.Mood() != MoodDriving {
		t.Errorf("Mood() = %q, want fallback %q", s.Mood(), MoodDriving)
	}
}

func TestMoodScalarsApplied(t *testing.T) {
	s := newTestSim(t, 1)
	s.SetMoodProfile(MoodCalm)

	want := s.cfg.MoodOrDefault("calm")
	if s.moodScalars != want {
		t.Errorf("moodScalars = %+v, want %+v", s.moodScalars, want)
	}
}
