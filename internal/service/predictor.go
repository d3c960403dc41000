package service

import (
	"context"
	"errors"
)

var (
	// ErrPrediction signals the predictor was unavailable or rejected the input.
	ErrPrediction = errors.New("prediction failed")
	// ErrInvalidPrediction signals the predictor returned a probability
	// outside [0,100]. Out-of-range results are rejected, never clamped.
	ErrInvalidPrediction = errors.New("prediction probability out of range")
)

// FeatureVector is the fixed 5-dimensional input to the risk models, derived
// per candidate appointment and never persisted. Flag fields are 0 or 1.
type FeatureVector struct {
	PreviousNoShows int `json:"previous_no_shows"`
	LeadTimeDays    int `json:"lead_time_days"`
	DistanceFar     int `json:"distance_far"`
	Morning         int `json:"morning"`
	Weekend         int `json:"weekend"`
}

// RiskPredictor maps a feature vector to no-show and reschedule probabilities
// on a 0-100 scale.
type RiskPredictor interface {
	PredictNoShow(ctx context.Context, features FeatureVector) (float64, error)
	PredictReschedule(ctx context.Context, features FeatureVector) (float64, error)
}

// ValidateProbability enforces the [0,100] contract on a predictor result.
func ValidateProbability(p float64) error {
	if p < 0 || p > 100 {
		return ErrInvalidPrediction
	}
	return nil
}
