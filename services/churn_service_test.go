package services

import (
	"churn-bot/domain"
	"churn-bot/errors"
	"churn-bot/features"
	"churn-bot/mocks"
	"churn-bot/model"
	"churn-bot/repositories"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newPipeline(t *testing.T) (*features.Assembler, *model.Predictor) {
	t.Helper()
	artifacts, err := model.Load(
		filepath.Join("..", "model", "testdata", "model.json"),
		filepath.Join("..", "model", "testdata", "scaler.json"),
	)
	require.NoError(t, err)
	predictor := model.NewPredictor(artifacts.Model)
	assembler, err := features.NewAssembler(domain.ChurnSchema(false), predictor.Columns(), artifacts.Scaler)
	require.NoError(t, err)
	return assembler, predictor
}

func churnAnswers() domain.Answers {
	return domain.Answers{
		domain.FieldTenure:          domain.NumberValue(1),
		domain.FieldContract:        domain.TextValue("Month-to-month"),
		domain.FieldInternetService: domain.TextValue("Fiber optic"),
		domain.FieldMonthlyCharges:  domain.NumberValue(90),
		domain.FieldGender:          domain.TextValue("Male"),
		domain.FieldPartner:         domain.TextValue("No"),
		domain.FieldDependents:      domain.TextValue("No"),
		domain.FieldOnlineSecurity:  domain.TextValue("No"),
		domain.FieldTechSupport:     domain.TextValue("No"),
		domain.FieldStreamingTV:     domain.TextValue("Yes"),
		domain.FieldPaymentMethod:   domain.TextValue("Electronic check"),
	}
}

func TestChurnService_Score_StoresRecord(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIPredictionRepository(ctrl)
	assembler, predictor := newPipeline(t)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Given the history accepts the record
	var stored repositories.PredictionRecord
	repository.EXPECT().
		StorePrediction(gomock.Any()).
		DoAndReturn(func(record repositories.PredictionRecord) error {
			stored = record
			return nil
		}).
		Times(1)

	service := NewChurnService(log, assembler, predictor, repository)
	service.now = func() time.Time { return at }

	// When
	prediction, err := service.Score(context.Background(), "user-1", churnAnswers())

	// Then
	req.NoError(err)
	req.Equal(domain.WillChurn, prediction.Label)
	req.Equal("churn-logreg-2024.06", prediction.ModelVersion)
	req.NotEqual(uuid.Nil, stored.ID)
	req.Equal("user-1", stored.SessionID)
	req.Equal(string(domain.WillChurn), stored.Label)
	req.Equal(prediction.Probability, stored.Probability)
	req.Equal(at, stored.At)
	req.Equal(1.0, stored.Answers[domain.FieldTenure])
	req.Equal("Month-to-month", stored.Answers[domain.FieldContract])
}

func TestChurnService_Score_IgnoresHistoryFailure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIPredictionRepository(ctrl)
	assembler, predictor := newPipeline(t)

	repository.EXPECT().
		StorePrediction(gomock.Any()).
		Return(fmt.Errorf("disk full")).
		Times(1)

	service := NewChurnService(log, assembler, predictor, repository)

	prediction, err := service.Score(context.Background(), "user-1", churnAnswers())

	req.NoError(err)
	req.Equal(domain.WillChurn, prediction.Label)
}

func TestChurnService_Score_WithoutHistory(t *testing.T) {
	req := require.New(t)
	assembler, predictor := newPipeline(t)
	service := NewChurnService(slog.Default(), assembler, predictor, nil)

	prediction, err := service.Score(context.Background(), "user-1", churnAnswers())

	req.NoError(err)
	req.InDelta(0.924, prediction.Probability, 1e-3)
}

func TestChurnService_Score_IncompleteAnswers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIPredictionRepository(ctrl)
	assembler, predictor := newPipeline(t)

	// Nothing is stored when scoring fails
	repository.EXPECT().StorePrediction(gomock.Any()).Times(0)

	service := NewChurnService(slog.Default(), assembler, predictor, repository)
	answers := churnAnswers()
	delete(answers, domain.FieldMonthlyCharges)

	_, err := service.Score(context.Background(), "user-1", answers)

	req.ErrorIs(err, errors.ErrSchemaViolation)
}

func TestChurnService_Score_CancelledContext(t *testing.T) {
	req := require.New(t)
	assembler, predictor := newPipeline(t)
	service := NewChurnService(slog.Default(), assembler, predictor, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := service.Score(ctx, "user-1", churnAnswers())

	req.ErrorIs(err, context.Canceled)
}
