package sim

import (
	"math"
	"sort"
)

// MoodProfile selects a set of pacing multipliers.
type MoodProfile string

const (
	MoodCalm       MoodProfile = "calm"
	MoodDriving    MoodProfile = "driving"
	MoodAggressive MoodProfile = "aggressive"
)

// IntensitySample is one point of the sparse music-energy timeline.
type IntensitySample struct {
	TimeSec   float64
	Intensity float64 // [0, 1]
}

// defaultIntensity is used while no timeline is loaded.
const defaultIntensity = 0.5

// SetMoodProfile switches the pacing multipliers. Unknown profiles fall back
// to neutral scalars. Must be called between ticks.
func (s *Sim) SetMoodProfile(mood MoodProfile) {
	switch mood {
	case MoodCalm, MoodDriving, MoodAggressive:
	default:
		mood = MoodDriving
	}
	s.mood = mood
	s.moodScalars = s.cfg.MoodOrDefault(string(mood))
}

// Mood returns the active mood profile.
func (s *Sim) Mood() MoodProfile { return s.mood }

// SetIntensityTimeline replaces the intensity timeline. Samples with
// non-finite or negative times are dropped; intensities are clamped to
// [0, 1]; the result is sorted by time. Must be called between ticks.
func (s *Sim) SetIntensityTimeline(timeline []IntensitySample) {
	cleaned := make([]IntensitySample, 0, len(timeline))
	for _, sample := range timeline {
		if !isFinite(sample.TimeSec) || sample.TimeSec < 0 || !isFinite(sample.Intensity) {
			continue
		}
		if sample.Intensity < 0 {
			sample.Intensity = 0
		} else if sample.Intensity > 1 {
			sample.Intensity = 1
		}
		cleaned = append(cleaned, sample)
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].TimeSec < cleaned[j].TimeSec
	})
	s.intensity = cleaned
}

// intensityAt looks up the intensity at time t by piecewise-linear
// interpolation, clamping to the first/last sample outside the covered
// range.
func (s *Sim) intensityAt(t float64) float64 {
	tl := s.intensity
	if len(tl) == 0 {
		return defaultIntensity
	}
	if t <= tl[0].TimeSec {
		return tl[0].Intensity
	}
	last := len(tl) - 1
	if t >= tl[last].TimeSec {
		return tl[last].Intensity
	}

	// First sample strictly after t
	i := sort.Search(len(tl), func(i int) bool { return tl[i].TimeSec > t })
	a, b := tl[i-1], tl[i]
	span := b.TimeSec - a.TimeSec
	if span <= 0 {
		return b.Intensity
	}
	frac := (t - a.TimeSec) / span
	return a.Intensity + (b.Intensity-a.Intensity)*frac
}

// CurrentIntensity returns the intensity at the current sim time.
func (s *Sim) CurrentIntensity() float64 {
	return s.intensityAt(s.timeSec)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
