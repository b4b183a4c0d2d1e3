// Package main provides CMA-ES calibration of the cue scheduler parameters.
package main

import (
	"github.com/pthm-cable/cuefire/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of scheduler parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "min_lead", Path: "scheduler.min_lead", Min: 0.05, Max: 0.5, Default: 0.12},
			{Name: "max_lead", Path: "scheduler.max_lead", Min: 1.0, Max: 4.0, Default: 2.5},
			{Name: "fallback_lead_fraction", Path: "scheduler.fallback_lead_fraction", Min: 0.1, Max: 0.9, Default: 0.35},
			{Name: "candidate_y_weight", Path: "scheduler.candidate_y_weight", Min: 0.2, Max: 4.0, Default: 1.5},
			{Name: "candidate_x_weight", Path: "scheduler.candidate_x_weight", Min: 0.05, Max: 2.0, Default: 0.4},
			{Name: "hit_tolerance", Path: "scheduler.hit_tolerance", Min: 0.1, Max: 2.0, Default: 0.6},
			{Name: "spawn_base_cadence", Path: "spawn.base_cadence", Min: 0.4, Max: 3.0, Default: 1.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Scheduler.MinLead = clamped[i]
	i++
	cfg.Scheduler.MaxLead = clamped[i]
	i++
	cfg.Scheduler.FallbackLeadFraction = clamped[i]
	i++
	cfg.Scheduler.CandidateYWeight = clamped[i]
	i++
	cfg.Scheduler.CandidateXWeight = clamped[i]
	i++
	cfg.Scheduler.HitTolerance = clamped[i]
	i++
	cfg.Spawn.BaseCadence = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Scheduler.MinLead,
		cfg.Scheduler.MaxLead,
		cfg.Scheduler.FallbackLeadFraction,
		cfg.Scheduler.CandidateYWeight,
		cfg.Scheduler.CandidateXWeight,
		cfg.Scheduler.HitTolerance,
		cfg.Spawn.BaseCadence,
	}
}
