// Package features turns a completed answer set into the model input vector.
package features

import (
	"churn-bot/domain"
	"churn-bot/errors"
	"churn-bot/model"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// ScaledColumns are the numeric columns the scaler was fitted on.
var ScaledColumns = []string{domain.FieldTenure, domain.FieldMonthlyCharges, domain.ColumnTotalCharges}

type scaledColumn struct {
	index int
	mean  float64
	scale float64
}

// Assembler reproduces the training-time preprocessing:
// derive TotalCharges, one-hot the categorical answers, align on the model
// columns and standardise the numeric ones.
type Assembler struct {
	schema   domain.Schema
	columns  []string
	position map[string]int
	scaled   []scaledColumn
}

// NewAssembler checks the model columns and the scaler against the schema.
func NewAssembler(schema domain.Schema, columns []string, scaler model.ScalerArtifact) (*Assembler, error) {
	for _, name := range []string{domain.FieldTenure, domain.FieldMonthlyCharges} {
		if f, ok := schema.Lookup(name); !ok || f.Kind != domain.Numeric {
			return nil, fmt.Errorf("numeric field %q missing from schema: %w", name, errors.ErrSchemaViolation)
		}
	}

	missing, extra := lo.Difference(ScaledColumns, scaler.FeatureNames)
	if len(missing) > 0 || len(extra) > 0 {
		return nil, fmt.Errorf("scaler missing %v, unexpected %v: %w", missing, extra, errors.ErrScalerMismatch)
	}

	position := make(map[string]int, len(columns))
	for i, column := range columns {
		if !producible(schema, column) {
			return nil, fmt.Errorf("column %q: %w", column, errors.ErrUnknownColumn)
		}
		position[column] = i
	}

	scaled := make([]scaledColumn, 0, len(ScaledColumns))
	for _, column := range ScaledColumns {
		i, ok := position[column]
		if !ok {
			return nil, fmt.Errorf("model has no %q column to scale: %w", column, errors.ErrScalerMismatch)
		}
		mean, scale, _ := scaler.Param(column)
		scaled = append(scaled, scaledColumn{index: i, mean: mean, scale: scale})
	}

	return &Assembler{
		schema:   schema,
		columns:  slices.Clone(columns),
		position: position,
		scaled:   scaled,
	}, nil
}

// producible tells whether some answer can ever set the column.
func producible(schema domain.Schema, column string) bool {
	if column == domain.ColumnTotalCharges {
		return true
	}
	if f, ok := schema.Lookup(column); ok && f.Kind == domain.Numeric {
		return true
	}
	return lo.SomeBy(schema.CategoricalNames(), func(name string) bool {
		return strings.HasPrefix(column, name+"_")
	})
}

func (a *Assembler) Columns() []string {
	return slices.Clone(a.columns)
}

// Assemble builds the scaled vector in the model's column order.
// Columns for categories that were not selected stay at 0.
func (a *Assembler) Assemble(answers domain.Answers) (domain.FeatureVector, error) {
	raw, err := a.expand(answers)
	if err != nil {
		return domain.FeatureVector{}, err
	}

	values := make([]float64, len(a.columns))
	for i, column := range a.columns {
		values[i] = raw[column]
	}
	for _, s := range a.scaled {
		values[s.index] = (values[s.index] - s.mean) / s.scale
	}
	return domain.FeatureVector{Columns: slices.Clone(a.columns), Values: values}, nil
}

// Unrecognized lists one-hot columns produced by the answers that the model
// never saw. They are dropped by Assemble.
func (a *Assembler) Unrecognized(answers domain.Answers) []string {
	raw, err := a.expand(answers)
	if err != nil {
		return nil
	}
	unknown := lo.Filter(lo.Keys(raw), func(column string, _ int) bool {
		_, ok := a.position[column]
		return !ok
	})
	slices.Sort(unknown)
	return unknown
}

func (a *Assembler) expand(answers domain.Answers) (map[string]float64, error) {
	raw := make(map[string]float64, a.schema.Len()+1)
	for _, field := range a.schema.Fields() {
		switch field.Kind {
		case domain.Numeric:
			n, ok := answers.Number(field.Name)
			if !ok {
				return nil, fmt.Errorf("numeric answer %q missing: %w", field.Name, errors.ErrSchemaViolation)
			}
			raw[field.Name] = n
		case domain.Categorical:
			text, ok := answers.Text(field.Name)
			if !ok {
				return nil, fmt.Errorf("categorical answer %q missing: %w", field.Name, errors.ErrSchemaViolation)
			}
			raw[field.Name+"_"+text] = 1
		}
	}
	raw[domain.ColumnTotalCharges] = raw[domain.FieldTenure] * raw[domain.FieldMonthlyCharges]
	return raw, nil
}
