package ports

import (
	"context"

	"agri-ml-service/internal/core/estimator"
)

// ArtifactLoader reads and decodes model artifacts. Names are relative to
// the loader's root and carry no extension, e.g. "irrigation/scaler".
type ArtifactLoader interface {
	LoadClassifier(ctx context.Context, name string) (estimator.Classifier, error)
	LoadRegressor(ctx context.Context, name string) (estimator.Regressor, error)
	LoadScaler(ctx context.Context, name string) (*estimator.StandardScaler, error)
	LoadMapping(ctx context.Context, name string) (*estimator.CategoryMapping, error)
}
