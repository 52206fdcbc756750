package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"agri-ml-service/internal/core/estimator"
)

// MockArtifactLoader is a mock of ArtifactLoader.
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) LoadClassifier(ctx context.Context, name string) (estimator.Classifier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(estimator.Classifier), args.Error(1)
}

func (m *MockArtifactLoader) LoadRegressor(ctx context.Context, name string) (estimator.Regressor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(estimator.Regressor), args.Error(1)
}

func (m *MockArtifactLoader) LoadScaler(ctx context.Context, name string) (*estimator.StandardScaler, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estimator.StandardScaler), args.Error(1)
}

func (m *MockArtifactLoader) LoadMapping(ctx context.Context, name string) (*estimator.CategoryMapping, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estimator.CategoryMapping), args.Error(1)
}

// MockMetricsRecorder is a mock of MetricsRecorder.
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ArtifactGroupLoaded(group, outcome string, took time.Duration) {
	m.Called(group, outcome, took)
}

func (m *MockMetricsRecorder) PredictionServed(task, outcome string, took time.Duration) {
	m.Called(task, outcome, took)
}
