package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agri-ml-service/internal/core/domain"
	"agri-ml-service/internal/core/estimator"
	output "agri-ml-service/internal/core/ports/output"
	"agri-ml-service/internal/testutil"
)

func newCopraService(t *testing.T, dryingTime, oilYield estimator.Regressor) (*CopraService, *testutil.MockArtifactLoader) {
	t.Helper()
	loader := new(testutil.MockArtifactLoader)
	testutil.LoadedArtifacts(loader, dryingTime, oilYield)
	return NewCopraService(NewModelRegistry(loader, nil), nil), loader
}

func TestCopraService_PredictDryingTime(t *testing.T) {
	svc, _ := newCopraService(t, testutil.ConstantRegressor(3, 12.345), testutil.ConstantRegressor(4, 0))
	input := domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0, "humidity": 70.0}

	result, err := svc.PredictDryingTime(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 12.345, result.DryingTime)
	assert.Equal(t, input, result.InputFeatures)
}

func TestCopraService_DryingTimeFeatureOrder(t *testing.T) {
	svc, _ := newCopraService(t, testutil.PositionalRegressor(3), testutil.ConstantRegressor(4, 0))

	result, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 1.0, "temperature": 2.0, "humidity": 3.0})
	require.NoError(t, err)
	// [moistureLevel, temperature, humidity] . [1, 10, 100]
	assert.Equal(t, 321.0, result.DryingTime)

	swapped, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 2.0, "temperature": 1.0, "humidity": 3.0})
	require.NoError(t, err)
	assert.NotEqual(t, result.DryingTime, swapped.DryingTime)
}

func TestCopraService_PredictOilYield(t *testing.T) {
	svc, _ := newCopraService(t, testutil.ConstantRegressor(3, 0), testutil.PositionalRegressor(4))
	input := domain.FeatureRecord{"moistureLevel": 1.0, "temperature": 2.0, "humidity": 3.0, "dryingTime": 4.0}

	result, err := svc.PredictOilYield(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 4321.0, result.OilYield)
	assert.Equal(t, input, result.InputFeatures)
}

func TestCopraService_MissingField(t *testing.T) {
	svc, loader := newCopraService(t, testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	_, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0})
	assert.ErrorIs(t, err, domain.ErrMissingField)
	assert.Contains(t, err.Error(), "humidity")

	_, err = svc.PredictOilYield(context.Background(),
		domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0, "humidity": 70.0})
	assert.ErrorIs(t, err, domain.ErrMissingField)
	assert.Contains(t, err.Error(), "dryingTime")

	// Validation happens before any artifact is touched.
	loader.AssertNotCalled(t, "LoadRegressor", mock.Anything, mock.Anything)
}

func TestCopraService_NonNumericField(t *testing.T) {
	svc, _ := newCopraService(t, testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(4, 1))

	_, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": "25", "temperature": 30.0, "humidity": 70.0})
	assert.ErrorIs(t, err, domain.ErrNonNumericField)
	assert.True(t, domain.IsValidationError(err))
}

func TestCopraService_FeatureSchemaMismatch(t *testing.T) {
	model := testutil.ConstantRegressor(3, 1)
	model.Features = []string{"Temperature (°C)", "Initial Moisture Level (%)", "Humidity (%)"}
	svc, _ := newCopraService(t, model, testutil.ConstantRegressor(4, 1))

	_, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0, "humidity": 70.0})
	assert.ErrorIs(t, err, domain.ErrFeatureSchemaMismatch)
	assert.True(t, domain.IsModelError(err))
}

func TestCopraService_InferenceError(t *testing.T) {
	// Oil-yield model trained on three columns cannot take four.
	svc, _ := newCopraService(t, testutil.ConstantRegressor(3, 1), testutil.ConstantRegressor(3, 1))

	_, err := svc.PredictOilYield(context.Background(),
		domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0, "humidity": 70.0, "dryingTime": 5.0})
	assert.ErrorIs(t, err, domain.ErrInference)
}

func TestCopraService_NonFinitePrediction(t *testing.T) {
	// A finite but huge moisture level overflows the weighted sum.
	overflow := &estimator.LinearRegressor{Coefficients: []float64{10, 0, 0}}
	svc, _ := newCopraService(t, overflow, testutil.ConstantRegressor(4, 1))

	_, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 1e308, "temperature": 30.0, "humidity": 70.0})
	assert.ErrorIs(t, err, domain.ErrInference)
	assert.Contains(t, err.Error(), "non-finite")
}

func TestCopraService_LoadError(t *testing.T) {
	loader := new(testutil.MockArtifactLoader)
	loader.On("LoadRegressor", mock.Anything, mock.Anything).Return(nil, domain.ErrArtifactNotFound)
	recorder := new(testutil.MockMetricsRecorder)
	recorder.On("ArtifactGroupLoaded", domain.GroupCopra, output.OutcomeFailure, mock.Anything)
	recorder.On("PredictionServed", TaskDryingTime, output.OutcomeFailure, mock.Anything).Once()
	svc := NewCopraService(NewModelRegistry(loader, recorder), recorder)

	_, err := svc.PredictDryingTime(context.Background(),
		domain.FeatureRecord{"moistureLevel": 25.0, "temperature": 30.0, "humidity": 70.0})
	assert.True(t, domain.IsLoadError(err))
	recorder.AssertExpectations(t)
}
