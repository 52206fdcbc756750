package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"agri-ml-service/internal/core/domain"
	output "agri-ml-service/internal/core/ports/output"
)

// Artifact names relative to the loader root.
const (
	IrrigationModelArtifact   = "irrigation/best_model"
	IrrigationScalerArtifact  = "irrigation/scaler"
	IrrigationMappingArtifact = "irrigation/soil_type_mapping"
	DryingTimeModelArtifact   = "copra/best_drying_time_model"
	OilYieldModelArtifact     = "copra/best_oil_yield_predictor"
)

// ModelRegistry lazily loads model artifacts and keeps them for the life of
// the process. Each group is loaded at most once successfully; concurrent
// cold-start callers share a single in-flight load. A failed load leaves the
// group empty so the next caller retries.
type ModelRegistry struct {
	loader   output.ArtifactLoader
	recorder output.MetricsRecorder

	inflight singleflight.Group

	mu         sync.RWMutex
	irrigation *domain.IrrigationComponents
	copra      *domain.CopraComponents
}

func NewModelRegistry(loader output.ArtifactLoader, recorder output.MetricsRecorder) *ModelRegistry {
	if recorder == nil {
		recorder = output.NopRecorder{}
	}
	return &ModelRegistry{loader: loader, recorder: recorder}
}

// LoadIrrigationModel loads the irrigation classifier, its scaler and the
// soil type mapping. It is a no-op when the group is already cached.
func (r *ModelRegistry) LoadIrrigationModel(ctx context.Context) error {
	return r.loadGroup(ctx, domain.GroupIrrigation, r.loadIrrigation)
}

// IrrigationComponents returns the irrigation bundle, loading it on first use.
func (r *ModelRegistry) IrrigationComponents(ctx context.Context) (domain.IrrigationComponents, error) {
	if c := r.cachedIrrigation(); c != nil {
		return *c, nil
	}
	if err := r.LoadIrrigationModel(ctx); err != nil {
		return domain.IrrigationComponents{}, err
	}
	if c := r.cachedIrrigation(); c != nil {
		return *c, nil
	}
	return domain.IrrigationComponents{}, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, domain.ModelIrrigation)
}

// LoadCopraModels loads the drying-time and oil-yield regressors. The pair
// is cached only when both load, so a partial failure retries both.
func (r *ModelRegistry) LoadCopraModels(ctx context.Context) error {
	return r.loadGroup(ctx, domain.GroupCopra, r.loadCopra)
}

// CopraComponents returns the copra bundle, loading it on first use.
func (r *ModelRegistry) CopraComponents(ctx context.Context) (domain.CopraComponents, error) {
	if c := r.cachedCopra(); c != nil {
		return *c, nil
	}
	if err := r.LoadCopraModels(ctx); err != nil {
		return domain.CopraComponents{}, err
	}
	if c := r.cachedCopra(); c != nil {
		return *c, nil
	}
	return domain.CopraComponents{}, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, domain.GroupCopra)
}

// RegistryStatus reports which model groups are usable.
type RegistryStatus struct {
	Irrigation bool
	Copra      bool
	Errors     map[string]error
}

func (s RegistryStatus) Healthy() bool {
	return s.Irrigation && s.Copra
}

// Status forces a load attempt of every group and reports the result.
func (r *ModelRegistry) Status(ctx context.Context) RegistryStatus {
	st := RegistryStatus{Errors: map[string]error{}}

	irrigation, err := r.IrrigationComponents(ctx)
	if err != nil {
		st.Errors[domain.GroupIrrigation] = err
	}
	st.Irrigation = err == nil && irrigation.Complete()

	copra, err := r.CopraComponents(ctx)
	if err != nil {
		st.Errors[domain.GroupCopra] = err
	}
	st.Copra = err == nil && copra.Complete()

	return st
}

// Warm loads every group up front, concurrently. All groups are attempted
// even if one fails and every failure is reported.
func (r *ModelRegistry) Warm(ctx context.Context) error {
	loads := []func(context.Context) error{r.LoadIrrigationModel, r.LoadCopraModels}
	errs := make([]error, len(loads))

	// Each load also records its own error: Wait only reports the first.
	var g errgroup.Group
	for i, load := range loads {
		g.Go(func() error {
			errs[i] = load(ctx)
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}

func (r *ModelRegistry) cachedIrrigation() *domain.IrrigationComponents {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.irrigation
}

func (r *ModelRegistry) cachedCopra() *domain.CopraComponents {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copra
}

func (r *ModelRegistry) loadGroup(ctx context.Context, group string, load func(context.Context) error) error {
	// The load is shared by every waiting caller, so one caller giving up
	// must not cancel it for the rest.
	shared := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(group, func() (any, error) {
		return nil, load(shared)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *ModelRegistry) loadIrrigation(ctx context.Context) error {
	if r.cachedIrrigation() != nil {
		return nil
	}

	start := time.Now()
	model, err := r.loader.LoadClassifier(ctx, IrrigationModelArtifact)
	if err != nil {
		return r.loadFailed(domain.GroupIrrigation, start, err)
	}
	scaler, err := r.loader.LoadScaler(ctx, IrrigationScalerArtifact)
	if err != nil {
		return r.loadFailed(domain.GroupIrrigation, start, err)
	}
	mapping, err := r.loader.LoadMapping(ctx, IrrigationMappingArtifact)
	if err != nil {
		return r.loadFailed(domain.GroupIrrigation, start, err)
	}

	c := &domain.IrrigationComponents{Model: model, Scaler: scaler, Mapping: mapping}
	if !c.Complete() {
		return r.loadFailed(domain.GroupIrrigation, start, domain.ErrModelUnavailable)
	}

	r.mu.Lock()
	r.irrigation = c
	r.mu.Unlock()

	r.loadSucceeded(domain.GroupIrrigation, start)
	return nil
}

func (r *ModelRegistry) loadCopra(ctx context.Context) error {
	if r.cachedCopra() != nil {
		return nil
	}

	start := time.Now()
	dryingTime, err := r.loader.LoadRegressor(ctx, DryingTimeModelArtifact)
	if err != nil {
		return r.loadFailed(domain.GroupCopra, start, err)
	}
	oilYield, err := r.loader.LoadRegressor(ctx, OilYieldModelArtifact)
	if err != nil {
		return r.loadFailed(domain.GroupCopra, start, err)
	}

	c := &domain.CopraComponents{DryingTimeModel: dryingTime, OilYieldModel: oilYield}
	if !c.Complete() {
		return r.loadFailed(domain.GroupCopra, start, domain.ErrModelUnavailable)
	}

	r.mu.Lock()
	r.copra = c
	r.mu.Unlock()

	r.loadSucceeded(domain.GroupCopra, start)
	return nil
}

func (r *ModelRegistry) loadSucceeded(group string, start time.Time) {
	took := time.Since(start)
	r.recorder.ArtifactGroupLoaded(group, output.OutcomeSuccess, took)
	log.WithFields(log.Fields{
		"group":      group,
		"latency_ms": took.Milliseconds(),
	}).Info("model artifacts loaded")
}

func (r *ModelRegistry) loadFailed(group string, start time.Time, err error) error {
	r.recorder.ArtifactGroupLoaded(group, output.OutcomeFailure, time.Since(start))
	log.WithError(err).WithField("group", group).Error("failed to load model artifacts")
	if errors.Is(err, domain.ErrArtifactLoad) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrArtifactLoad, group, err)
}
