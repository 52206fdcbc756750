package services

import (
	"context"
	"fmt"
	"time"

	"agri-ml-service/internal/core/domain"
	"agri-ml-service/internal/core/estimator"
	output "agri-ml-service/internal/core/ports/output"
)

type IrrigationService struct {
	registry *ModelRegistry
	recorder output.MetricsRecorder
}

func NewIrrigationService(registry *ModelRegistry, recorder output.MetricsRecorder) *IrrigationService {
	if recorder == nil {
		recorder = output.NopRecorder{}
	}
	return &IrrigationService{registry: registry, recorder: recorder}
}

// Predict classifies the water need of a plot. The soil type is encoded
// through the trained mapping, the row is standardized by the trained
// scaler and then classified.
func (s *IrrigationService) Predict(ctx context.Context, input domain.FeatureRecord) (_ *domain.IrrigationPrediction, err error) {
	start := time.Now()
	defer func() {
		s.recorder.PredictionServed(TaskIrrigation, outcome(err), time.Since(start))
	}()

	soilType, err := input.Text(domain.IrrigationFeatures[0].Field)
	if err != nil {
		return nil, err
	}
	readings, err := input.Vector(domain.IrrigationFeatures[1:])
	if err != nil {
		return nil, err
	}

	components, err := s.registry.IrrigationComponents(ctx)
	if err != nil {
		return nil, err
	}

	code, ok := components.Mapping.Code(soilType)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q (known: %v)",
			domain.ErrInvalidInput, domain.ErrUnknownSoilType, soilType, components.Mapping.Categories())
	}

	columns := domain.Columns(domain.IrrigationFeatures)
	if err := estimator.CheckFeatures(components.Scaler.FeatureNames(), columns); err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", domain.ErrFeatureSchemaMismatch, err)
	}
	if err := estimator.CheckFeatures(components.Model.FeatureNames(), columns); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeatureSchemaMismatch, domain.ModelIrrigation, err)
	}

	x := append([]float64{float64(code)}, readings...)
	scaled, err := components.Scaler.Transform(x)
	if err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", domain.ErrInference, err)
	}

	proba, err := components.Model.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInference, domain.ModelIrrigation, err)
	}
	if !finite(proba...) {
		return nil, fmt.Errorf("%w: %s: non-finite probabilities %v", domain.ErrInference, domain.ModelIrrigation, proba)
	}
	label, err := components.Model.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInference, domain.ModelIrrigation, err)
	}

	return &domain.IrrigationPrediction{
		Prediction:    label,
		Probabilities: proba,
		InputFeatures: input,
	}, nil
}
