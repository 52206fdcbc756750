package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"agri-ml-service/internal/config"
	"agri-ml-service/internal/core/domain"
	"agri-ml-service/internal/core/estimator"
	ports "agri-ml-service/internal/core/ports/output"
)

type artifactLoader struct {
	fs        afero.Fs
	basePath  string
	extension string
}

// NewArtifactLoader creates an ArtifactLoader reading from cfg.BasePath on
// fsys. Pass afero.NewOsFs() in production.
func NewArtifactLoader(cfg *config.ModelsConfig, fsys afero.Fs) ports.ArtifactLoader {
	ext := cfg.ArtifactExt
	if ext == "" {
		ext = ".json"
	}
	return &artifactLoader{
		fs:        fsys,
		basePath:  cfg.BasePath,
		extension: ext,
	}
}

func (l *artifactLoader) path(name string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(name)+l.extension)
}

func (l *artifactLoader) read(ctx context.Context, name string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	p := l.path(name)
	data, err := afero.ReadFile(l.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, p, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, p)
		}
		return nil, p, fmt.Errorf("read %s: %w", p, err)
	}
	return data, p, nil
}

func decodeErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrArtifactDecode, path, err)
}

func (l *artifactLoader) LoadClassifier(ctx context.Context, name string) (estimator.Classifier, error) {
	data, p, err := l.read(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := estimator.DecodeClassifier(data, estimator.IsYAML(p))
	if err != nil {
		return nil, decodeErr(p, err)
	}
	return c, nil
}

func (l *artifactLoader) LoadRegressor(ctx context.Context, name string) (estimator.Regressor, error) {
	data, p, err := l.read(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := estimator.DecodeRegressor(data, estimator.IsYAML(p))
	if err != nil {
		return nil, decodeErr(p, err)
	}
	return r, nil
}

func (l *artifactLoader) LoadScaler(ctx context.Context, name string) (*estimator.StandardScaler, error) {
	data, p, err := l.read(ctx, name)
	if err != nil {
		return nil, err
	}
	s, err := estimator.DecodeScaler(data, estimator.IsYAML(p))
	if err != nil {
		return nil, decodeErr(p, err)
	}
	return s, nil
}

func (l *artifactLoader) LoadMapping(ctx context.Context, name string) (*estimator.CategoryMapping, error) {
	data, p, err := l.read(ctx, name)
	if err != nil {
		return nil, err
	}
	m, err := estimator.DecodeMapping(data, estimator.IsYAML(p))
	if err != nil {
		return nil, decodeErr(p, err)
	}
	return m, nil
}
