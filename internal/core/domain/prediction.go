package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"agri-ml-service/internal/core/estimator"
)

// ============================================================================
// Logical Model Names
// ============================================================================

const (
	ModelIrrigation = "irrigation"
	ModelDryingTime = "drying_time"
	ModelOilYield   = "oil_yield"
)

// Model groups loaded together by the registry.
const (
	GroupIrrigation = "irrigation"
	GroupCopra      = "copra"
)

// ============================================================================
// Feature Schemas
// ============================================================================

// Feature describes one column of a model's input row: the request field it
// is read from and the column name used when the model was trained.
type Feature struct {
	Field  string
	Column string
}

// Column order must match the training schema exactly. A reordered vector
// still produces a prediction, just a wrong one.
var (
	DryingTimeFeatures = []Feature{
		{Field: "moistureLevel", Column: "Initial Moisture Level (%)"},
		{Field: "temperature", Column: "Temperature (°C)"},
		{Field: "humidity", Column: "Humidity (%)"},
	}

	OilYieldFeatures = []Feature{
		{Field: "moistureLevel", Column: "Initial Moisture Level (%)"},
		{Field: "temperature", Column: "Temperature (°C)"},
		{Field: "humidity", Column: "Humidity (%)"},
		{Field: "dryingTime", Column: "Drying Time (hrs)"},
	}

	IrrigationFeatures = []Feature{
		{Field: "soilType", Column: "Soil Type"},
		{Field: "soilMoisture", Column: "Soil Moisture (%)"},
		{Field: "temperature", Column: "Temperature (°C)"},
		{Field: "humidity", Column: "Humidity (%)"},
	}
)

// Columns returns the training column names of features, in order.
func Columns(features []Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Column
	}
	return out
}

// ============================================================================
// Component Bundles
// ============================================================================

// IrrigationComponents is the artifact set needed to classify water need.
type IrrigationComponents struct {
	Model   estimator.Classifier
	Scaler  *estimator.StandardScaler
	Mapping *estimator.CategoryMapping
}

// Complete reports whether every artifact in the bundle is present.
func (c IrrigationComponents) Complete() bool {
	return c.Model != nil && c.Scaler != nil && c.Mapping != nil
}

// CopraComponents holds the two independent copra regressors.
type CopraComponents struct {
	DryingTimeModel estimator.Regressor
	OilYieldModel   estimator.Regressor
}

// Complete reports whether both regressors are present.
func (c CopraComponents) Complete() bool {
	return c.DryingTimeModel != nil && c.OilYieldModel != nil
}

// ============================================================================
// Feature Records
// ============================================================================

// FeatureRecord is a decoded request body. It is echoed back verbatim in
// prediction responses, so callers must not mutate it.
type FeatureRecord map[string]any

// Number returns the named field as a finite float64. Only JSON numbers are
// accepted; numeric strings and booleans are rejected.
func (r FeatureRecord) Number(field string) (float64, error) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrMissingField, field)
	}

	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrNonNumericField, field)
		}
		v = f
	default:
		return 0, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrNonNumericField, field)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrNonNumericField, field)
	}
	return v, nil
}

// Text returns the named field as a non-empty string.
func (r FeatureRecord) Text(field string) (string, error) {
	raw, ok := r[field]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrMissingField, field)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrNonStringField, field)
	}
	return s, nil
}

// Vector reads every feature as a number, in order.
func (r FeatureRecord) Vector(features []Feature) ([]float64, error) {
	x := make([]float64, len(features))
	for i, f := range features {
		v, err := r.Number(f.Field)
		if err != nil {
			return nil, err
		}
		x[i] = v
	}
	return x, nil
}

// ============================================================================
// Prediction Results
// ============================================================================

type DryingTimePrediction struct {
	DryingTime    float64
	InputFeatures FeatureRecord
}

type OilYieldPrediction struct {
	OilYield      float64
	InputFeatures FeatureRecord
}

// IrrigationPrediction carries the predicted water-need class and the
// classifier's per-class probabilities, indexed by class.
type IrrigationPrediction struct {
	Prediction    int
	Probabilities []float64
	InputFeatures FeatureRecord
}
