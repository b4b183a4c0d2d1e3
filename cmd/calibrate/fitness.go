package main

import (
	"github.com/pthm-cable/cuefire/config"
	"github.com/pthm-cable/cuefire/sim"
)

// FitnessEvaluator scores a parameter vector by running full track
// simulations across several seeds. Lower is better: the score combines the
// cue miss rate with the normalized mean timing error of resolved cues.
type FitnessEvaluator struct {
	params   *ParamVector
	duration float64
	bpm      float64
	seeds    []int64
	baseCfg  *config.Config

	lastHitRate float64
	lastErrMs   float64
}

// NewFitnessEvaluator creates an evaluator running tracks of the given
// duration at the given synthetic beat rate.
func NewFitnessEvaluator(params *ParamVector, duration, bpm float64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		duration: duration,
		bpm:      bpm,
		seeds:    seeds,
		baseCfg:  baseCfg,
	}
}

// Evaluate runs one simulation per seed with the candidate parameters and
// returns the mean fitness.
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	clamped := e.params.Clamp(raw)

	cues := e.cueTimeline()

	var totalFitness, totalHitRate, totalErrMs float64
	for _, seed := range e.seeds {
		cfg := *e.baseCfg
		e.params.ApplyToConfig(&cfg, clamped)

		s := sim.New(sim.Options{Config: &cfg, Seed: seed})
		s.StartTrackRun(cues, nil, sim.MoodDriving)

		dt := cfg.Sim.DT
		for s.Time() < e.duration {
			s.Step(dt)
		}

		snap := s.Snapshot()
		resolved := snap.CueResolved + snap.CueMissed

		var missRate float64
		if resolved > 0 {
			missRate = float64(snap.CueMissed) / float64(resolved)
			totalHitRate += float64(snap.CueResolved) / float64(resolved)
		} else {
			missRate = 1
		}
		totalErrMs += snap.AvgCueErrorMs

		// Miss rate dominates; error contributes up to ~0.5 per second
		// of mean error.
		totalFitness += missRate + snap.AvgCueErrorMs/1000*0.5
	}

	n := float64(len(e.seeds))
	e.lastHitRate = totalHitRate / n
	e.lastErrMs = totalErrMs / n
	return totalFitness / n
}

// LastHitRate returns the mean cue hit rate of the most recent evaluation.
func (e *FitnessEvaluator) LastHitRate() float64 { return e.lastHitRate }

// LastErrMs returns the mean cue timing error of the most recent evaluation.
func (e *FitnessEvaluator) LastErrMs() float64 { return e.lastErrMs }

// cueTimeline synthesizes an on-beat cue timeline for the run duration.
func (e *FitnessEvaluator) cueTimeline() []float64 {
	beat := 60 / e.bpm

	var times []float64
	for t := beat; t < e.duration; t += beat {
		times = append(times, t)
	}
	return times
}
