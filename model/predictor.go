package model

import (
	"churn-bot/domain"
	"churn-bot/errors"
	"fmt"
	"math"
	"slices"
)

const defaultThreshold = 0.5

// Predictor scores aligned, scaled feature vectors. It is stateless and
// safe for concurrent use.
type Predictor struct {
	artifact  ModelArtifact
	threshold float64
}

func NewPredictor(artifact ModelArtifact) *Predictor {
	threshold := defaultThreshold
	if artifact.Threshold != nil {
		threshold = *artifact.Threshold
	}
	return &Predictor{artifact: artifact, threshold: threshold}
}

// Columns is the declared feature order of the model.
func (p *Predictor) Columns() []string {
	return slices.Clone(p.artifact.FeatureNames)
}

func (p *Predictor) Version() string {
	return p.artifact.Version
}

// PredictProba returns [p(stay), p(churn)].
func (p *Predictor) PredictProba(vector domain.FeatureVector) ([2]float64, error) {
	if !slices.Equal(vector.Columns, p.artifact.FeatureNames) || len(vector.Values) != len(vector.Columns) {
		return [2]float64{}, fmt.Errorf("got %d columns, model %s expects %d: %w",
			len(vector.Columns), p.artifact.Version, len(p.artifact.FeatureNames), errors.ErrColumnMismatch)
	}
	z := p.artifact.Intercept
	for i, x := range vector.Values {
		z += p.artifact.Coefficients[i] * x
	}
	positive := sigmoid(z)
	return [2]float64{1 - positive, positive}, nil
}

// Score labels the vector with the artifact's decision threshold.
func (p *Predictor) Score(vector domain.FeatureVector) (domain.Prediction, error) {
	proba, err := p.PredictProba(vector)
	if err != nil {
		return domain.Prediction{}, err
	}
	label := domain.WillStay
	if proba[1] >= p.threshold {
		label = domain.WillChurn
	}
	return domain.Prediction{
		Label:        label,
		Probability:  proba[1],
		ModelVersion: p.artifact.Version,
	}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
