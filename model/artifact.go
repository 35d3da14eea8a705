// Package model loads the trained churn classifier and the fitted scaler.
// Both artifacts are read once at startup and never mutated afterwards.
package model

import (
	"churn-bot/errors"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// ModelArtifact is a logistic regression exported from the training notebook.
// FeatureNames is the versioned column contract of the model.
type ModelArtifact struct {
	Version      string    `json:"version" validate:"required"`
	FeatureNames []string  `json:"feature_names" validate:"required,unique,dive,required"`
	Coefficients []float64 `json:"coefficients" validate:"required"`
	Intercept    float64   `json:"intercept"`
	Threshold    *float64  `json:"threshold,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// ScalerArtifact holds the per-column parameters of a fitted standard scaler.
type ScalerArtifact struct {
	FeatureNames []string  `json:"feature_names" validate:"required,unique,dive,required"`
	Mean         []float64 `json:"mean" validate:"required"`
	Scale        []float64 `json:"scale" validate:"required,dive,gt=0"`
}

type Artifacts struct {
	Model  ModelArtifact
	Scaler ScalerArtifact
}

// Param returns the mean and scale fitted for a column.
func (s ScalerArtifact) Param(column string) (mean, scale float64, ok bool) {
	_, i, found := lo.FindIndexOf(s.FeatureNames, func(name string) bool {
		return name == column
	})
	if !found {
		return 0, 0, false
	}
	return s.Mean[i], s.Scale[i], true
}

// Load reads and checks both artifacts. Any error is fatal for the caller.
func Load(modelPath, scalerPath string) (Artifacts, error) {
	var artifacts Artifacts
	if err := readJSON(modelPath, &artifacts.Model); err != nil {
		return Artifacts{}, err
	}
	if err := readJSON(scalerPath, &artifacts.Scaler); err != nil {
		return Artifacts{}, err
	}
	if err := artifacts.Validate(); err != nil {
		return Artifacts{}, err
	}
	return artifacts, nil
}

// Validate checks tags and the length agreement between parallel slices.
func (a Artifacts) Validate() error {
	if err := validate.Struct(a.Model); err != nil {
		return fmt.Errorf("model artifact: %v: %w", err, errors.ErrArtifactLoad)
	}
	if len(a.Model.Coefficients) != len(a.Model.FeatureNames) {
		return fmt.Errorf("model artifact: %d coefficients for %d features: %w",
			len(a.Model.Coefficients), len(a.Model.FeatureNames), errors.ErrArtifactLoad)
	}
	if err := validate.Struct(a.Scaler); err != nil {
		return fmt.Errorf("scaler artifact: %v: %w", err, errors.ErrArtifactLoad)
	}
	if len(a.Scaler.Mean) != len(a.Scaler.FeatureNames) || len(a.Scaler.Scale) != len(a.Scaler.FeatureNames) {
		return fmt.Errorf("scaler artifact: mean/scale length differs from %d features: %w",
			len(a.Scaler.FeatureNames), errors.ErrArtifactLoad)
	}
	return nil
}

func readJSON(path string, target any) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%v: %w", err, errors.ErrArtifactLoad)
	}
	if err := json.Unmarshal(bytes, target); err != nil {
		return fmt.Errorf("decode %s: %v: %w", path, err, errors.ErrArtifactLoad)
	}
	return nil
}
