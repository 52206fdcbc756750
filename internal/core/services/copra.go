package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"agri-ml-service/internal/core/domain"
	"agri-ml-service/internal/core/estimator"
	output "agri-ml-service/internal/core/ports/output"
)

// Prediction task names, used for metrics labels.
const (
	TaskDryingTime = "drying_time"
	TaskOilYield   = "oil_yield"
	TaskIrrigation = "irrigation"
)

type CopraService struct {
	registry *ModelRegistry
	recorder output.MetricsRecorder
}

func NewCopraService(registry *ModelRegistry, recorder output.MetricsRecorder) *CopraService {
	if recorder == nil {
		recorder = output.NopRecorder{}
	}
	return &CopraService{registry: registry, recorder: recorder}
}

// PredictDryingTime estimates copra drying time in hours from the initial
// moisture level, temperature and humidity.
func (s *CopraService) PredictDryingTime(ctx context.Context, input domain.FeatureRecord) (_ *domain.DryingTimePrediction, err error) {
	defer s.observe(TaskDryingTime, time.Now(), &err)

	x, err := input.Vector(domain.DryingTimeFeatures)
	if err != nil {
		return nil, err
	}

	components, err := s.registry.CopraComponents(ctx)
	if err != nil {
		return nil, err
	}

	y, err := regress(components.DryingTimeModel, domain.ModelDryingTime, domain.DryingTimeFeatures, x)
	if err != nil {
		return nil, err
	}

	return &domain.DryingTimePrediction{DryingTime: y, InputFeatures: input}, nil
}

// PredictOilYield estimates oil yield in kilograms. It takes the drying-time
// features plus the drying time itself.
func (s *CopraService) PredictOilYield(ctx context.Context, input domain.FeatureRecord) (_ *domain.OilYieldPrediction, err error) {
	defer s.observe(TaskOilYield, time.Now(), &err)

	x, err := input.Vector(domain.OilYieldFeatures)
	if err != nil {
		return nil, err
	}

	components, err := s.registry.CopraComponents(ctx)
	if err != nil {
		return nil, err
	}

	y, err := regress(components.OilYieldModel, domain.ModelOilYield, domain.OilYieldFeatures, x)
	if err != nil {
		return nil, err
	}

	return &domain.OilYieldPrediction{OilYield: y, InputFeatures: input}, nil
}

func (s *CopraService) observe(task string, start time.Time, err *error) {
	s.recorder.PredictionServed(task, outcome(*err), time.Since(start))
}

func regress(model estimator.Regressor, name string, features []domain.Feature, x []float64) (float64, error) {
	if model == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, name)
	}
	if err := estimator.CheckFeatures(model.FeatureNames(), domain.Columns(features)); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrFeatureSchemaMismatch, name, err)
	}
	y, err := model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInference, name, err)
	}
	if !finite(y) {
		return 0, fmt.Errorf("%w: %s: non-finite prediction %v", domain.ErrInference, name, y)
	}
	return y, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func outcome(err error) string {
	if err != nil {
		return output.OutcomeFailure
	}
	return output.OutcomeSuccess
}
