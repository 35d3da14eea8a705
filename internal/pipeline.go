package internal

import (
	"churn-bot/domain"
	"churn-bot/features"
	"churn-bot/locale"
	"churn-bot/model"
	"fmt"
	"log/slog"
)

// Pipeline bundles the immutable pieces every session shares.
type Pipeline struct {
	Schema    domain.Schema
	Assembler *features.Assembler
	Predictor *model.Predictor
	Catalog   locale.Catalog
}

// LoadPipeline loads the artifacts and checks them against the schema.
// Any error here must stop the process before it serves.
func LoadPipeline(log *slog.Logger, modelPath, scalerPath, language string, strict bool) (Pipeline, error) {
	artifacts, err := model.Load(modelPath, scalerPath)
	if err != nil {
		return Pipeline{}, fmt.Errorf("artifacts: %w", err)
	}
	schema := domain.ChurnSchema(strict)
	predictor := model.NewPredictor(artifacts.Model)
	assembler, err := features.NewAssembler(schema, predictor.Columns(), artifacts.Scaler)
	if err != nil {
		return Pipeline{}, fmt.Errorf("model %s: %w", predictor.Version(), err)
	}
	catalog := locale.New(language)

	log.Info("Model loaded",
		"version", predictor.Version(),
		"columns", len(predictor.Columns()),
		"language", catalog.Tag.String(),
		"strict_choices", strict)
	return Pipeline{Schema: schema, Assembler: assembler, Predictor: predictor, Catalog: catalog}, nil
}
