package main

import (
	"github.com/pthm-cable/serpent/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of steering weights.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Danger
			{Name: "probe_length", Path: "ai.probe_length", Min: 100, Max: 400, Default: 240},
			{Name: "edge_penalty", Path: "ai.edge_penalty", Min: 100, Max: 1000, Default: 500},
			{Name: "body_penalty", Path: "ai.body_penalty", Min: 50, Max: 500, Default: 200},
			{Name: "head_penalty", Path: "ai.head_penalty", Min: 50, Max: 400, Default: 150},
			{Name: "predict_time", Path: "ai.predict_time", Min: 0.1, Max: 1.0, Default: 0.4},
			// Interest
			{Name: "food_range", Path: "ai.food_range", Min: 200, Max: 900, Default: 500},
			{Name: "food_weight", Path: "ai.food_weight", Min: 0.5, Max: 4.0, Default: 1.5},
			// Momentum
			{Name: "forward_momentum", Path: "ai.forward_momentum", Min: 0.0, Max: 1.0, Default: 0.3},
			{Name: "prev_momentum", Path: "ai.prev_momentum", Min: 0.0, Max: 1.0, Default: 0.4},
			{Name: "momentum_decay", Path: "ai.momentum_decay", Min: 0.001, Max: 0.05, Default: 0.01},
			{Name: "jitter", Path: "ai.jitter", Min: 0.0, Max: 0.2, Default: 0.05},
			// Speed
			{Name: "caution_danger", Path: "ai.caution_danger", Min: -200, Max: 0, Default: -50},
			{Name: "caution_factor", Path: "ai.caution_factor", Min: 0.3, Max: 1.0, Default: 0.7},
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	ai := &cfg.AI

	ai.ProbeLength = c[0]
	ai.EdgePenalty = c[1]
	ai.BodyPenalty = c[2]
	ai.HeadPenalty = c[3]
	ai.PredictTime = c[4]

	ai.FoodRange = c[5]
	ai.FoodWeight = c[6]

	ai.ForwardMomentum = c[7]
	ai.PrevMomentum = c[8]
	ai.MomentumDecay = c[9]
	ai.Jitter = c[10]

	ai.CautionDanger = c[11]
	ai.CautionFactor = c[12]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	ai := cfg.AI
	return []float64{
		ai.ProbeLength,
		ai.EdgePenalty,
		ai.BodyPenalty,
		ai.HeadPenalty,
		ai.PredictTime,
		ai.FoodRange,
		ai.FoodWeight,
		ai.ForwardMomentum,
		ai.PrevMomentum,
		ai.MomentumDecay,
		ai.Jitter,
		ai.CautionDanger,
		ai.CautionFactor,
	}
}
