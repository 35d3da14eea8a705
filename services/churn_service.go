package services

import (
	"churn-bot/domain"
	"churn-bot/features"
	"churn-bot/model"
	"churn-bot/repositories"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ChurnService runs the inference pipeline for a completed session and keeps
// an audit record of each prediction.
type ChurnService struct {
	log        *slog.Logger
	assembler  *features.Assembler
	predictor  *model.Predictor
	repository repositories.IPredictionRepository
	now        func() time.Time
}

func NewChurnService(log *slog.Logger, assembler *features.Assembler, predictor *model.Predictor,
	repository repositories.IPredictionRepository) *ChurnService {
	return &ChurnService{
		log:        log,
		assembler:  assembler,
		predictor:  predictor,
		repository: repository,
		now:        time.Now,
	}
}

// Score assembles the feature vector and scores it. A failing history write
// is logged and does not fail the prediction.
func (s *ChurnService) Score(ctx context.Context, sessionID string, answers domain.Answers) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	if unknown := s.assembler.Unrecognized(answers); len(unknown) > 0 {
		s.log.Warn("Answers produce columns unknown to the model", "session", sessionID, "columns", unknown)
	}

	vector, err := s.assembler.Assemble(answers)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("assemble features: %w", err)
	}
	prediction, err := s.predictor.Score(vector)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("score features: %w", err)
	}
	s.log.Debug("Prediction computed",
		"session", sessionID,
		"label", prediction.Label,
		"probability", prediction.Probability,
		"model", prediction.ModelVersion)

	if s.repository != nil {
		record := repositories.PredictionRecord{
			ID:           uuid.New(),
			SessionID:    sessionID,
			Answers:      answers.Plain(),
			Label:        string(prediction.Label),
			Probability:  prediction.Probability,
			ModelVersion: prediction.ModelVersion,
			At:           s.now().UTC(),
		}
		if err := s.repository.StorePrediction(record); err != nil {
			s.log.Warn("Failed to store prediction", "session", sessionID, "error", err)
		}
	}
	return prediction, nil
}
