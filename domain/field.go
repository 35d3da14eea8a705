// Package domain contains the core concepts of the churn dialogue:
// the ordered field schema, the typed answers and the per-user session.
package domain

import (
	"churn-bot/errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

const (
	FieldTenure          = "tenure"
	FieldContract        = "Contract"
	FieldInternetService = "InternetService"
	FieldMonthlyCharges  = "MonthlyCharges"
	FieldGender          = "gender"
	FieldPartner         = "Partner"
	FieldDependents      = "Dependents"
	FieldOnlineSecurity  = "OnlineSecurity"
	FieldTechSupport     = "TechSupport"
	FieldStreamingTV     = "StreamingTV"
	FieldPaymentMethod   = "PaymentMethod"

	// ColumnTotalCharges is derived from tenure and MonthlyCharges, never asked.
	ColumnTotalCharges = "TotalCharges"
)

// Field is one question of the collection sequence.
type Field struct {
	Name    string   `validate:"required"`
	Kind    Kind     `validate:"oneof=numeric categorical"`
	Choices []string `validate:"required_if=Kind categorical,dive,required"`
	Prompt  string   `validate:"required"`
}

// Schema is the ordered, immutable list of fields to collect.
type Schema struct {
	fields []Field
	index  map[string]int
	strict bool
}

var validate = validator.New()

// NewSchema checks every field and freezes their order.
// In strict mode categorical answers must match one of the choices.
func NewSchema(strict bool, fields ...Field) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("schema needs at least one field")
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if err := validate.Struct(f); err != nil {
			return Schema{}, fmt.Errorf("field %d (%q): %w", i, f.Name, err)
		}
		if _, ok := index[f.Name]; ok {
			return Schema{}, fmt.Errorf("duplicate field %q", f.Name)
		}
		index[f.Name] = i
	}
	return Schema{fields: append([]Field(nil), fields...), index: index, strict: strict}, nil
}

// ChurnSchema returns the eleven questions the churn model was trained on.
func ChurnSchema(strict bool) Schema {
	yesNo := []string{"Yes", "No"}
	schema, err := NewSchema(strict,
		Field{Name: FieldTenure, Kind: Numeric, Prompt: "How many months has the customer stayed with the company (tenure)?"},
		Field{Name: FieldContract, Kind: Categorical, Choices: []string{"Month-to-month", "One year", "Two year"}, Prompt: "Contract type (Contract)?"},
		Field{Name: FieldInternetService, Kind: Categorical, Choices: []string{"DSL", "Fiber optic", "No"}, Prompt: "Internet service type (InternetService)?"},
		Field{Name: FieldMonthlyCharges, Kind: Numeric, Prompt: "Monthly charge (MonthlyCharges)?"},
		Field{Name: FieldGender, Kind: Categorical, Choices: []string{"Male", "Female"}, Prompt: "Gender (gender)?"},
		Field{Name: FieldPartner, Kind: Categorical, Choices: yesNo, Prompt: "Does the customer have a partner (Partner)?"},
		Field{Name: FieldDependents, Kind: Categorical, Choices: yesNo, Prompt: "Does the customer have dependents (Dependents)?"},
		Field{Name: FieldOnlineSecurity, Kind: Categorical, Choices: yesNo, Prompt: "Online security service (OnlineSecurity)?"},
		Field{Name: FieldTechSupport, Kind: Categorical, Choices: yesNo, Prompt: "Tech support service (TechSupport)?"},
		Field{Name: FieldStreamingTV, Kind: Categorical, Choices: yesNo, Prompt: "Streaming TV service (StreamingTV)?"},
		Field{Name: FieldPaymentMethod, Kind: Categorical, Choices: []string{"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"}, Prompt: "Payment method (PaymentMethod)?"},
	)
	if err != nil {
		panic(err)
	}
	return schema
}

// Fields returns a copy of the ordered fields.
func (s Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s Schema) Len() int {
	return len(s.fields)
}

func (s Schema) At(i int) Field {
	return s.fields[i]
}

func (s Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s Schema) Strict() bool {
	return s.strict
}

// NumericNames lists numeric fields in schema order.
func (s Schema) NumericNames() []string {
	return lo.FilterMap(s.fields, func(f Field, _ int) (string, bool) {
		return f.Name, f.Kind == Numeric
	})
}

// CategoricalNames lists categorical fields in schema order.
func (s Schema) CategoricalNames() []string {
	return lo.FilterMap(s.fields, func(f Field, _ int) (string, bool) {
		return f.Name, f.Kind == Categorical
	})
}

type ValidationReason string

const (
	ReasonNotANumber ValidationReason = "not_a_number"
	ReasonEmpty      ValidationReason = "empty"
	ReasonNotAllowed ValidationReason = "not_allowed"
)

// ValidationError reports an answer that must be entered again.
type ValidationError struct {
	Field  string
	Reason ValidationReason
	Input  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s (%q)", e.Field, e.Reason, e.Input)
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrValidation
}

// Validate parses a raw answer for the given field. It has no side effects.
func (s Schema) Validate(field Field, raw string) (Value, error) {
	text := strings.TrimSpace(raw)
	switch field.Kind {
	case Numeric:
		number, ok := ParseNumber(text)
		if !ok {
			return Value{}, &ValidationError{Field: field.Name, Reason: ReasonNotANumber, Input: raw}
		}
		return NumberValue(number), nil
	case Categorical:
		if text == "" {
			return Value{}, &ValidationError{Field: field.Name, Reason: ReasonEmpty, Input: raw}
		}
		if !s.strict {
			return TextValue(text), nil
		}
		choice, ok := lo.Find(field.Choices, func(c string) bool {
			return strings.EqualFold(c, text)
		})
		if !ok {
			return Value{}, &ValidationError{Field: field.Name, Reason: ReasonNotAllowed, Input: raw}
		}
		return TextValue(choice), nil
	default:
		return Value{}, fmt.Errorf("field %s has unknown kind %q", field.Name, field.Kind)
	}
}

// ParseNumber accepts both '.' and ',' as decimal separator.
// Non-finite values are refused since they cannot be scaled.
func ParseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if text == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}
