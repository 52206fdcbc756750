package estimator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Artifact kinds understood by Decode.
const (
	KindLinearRegressor    = "linear_regressor"
	KindTreeRegressor      = "tree_regressor"
	KindForestRegressor    = "forest_regressor"
	KindLogisticClassifier = "logistic_classifier"
	KindTreeClassifier     = "tree_classifier"
	KindForestClassifier   = "forest_classifier"
	KindStandardScaler     = "standard_scaler"
	KindCategoryMapping    = "category_mapping"
)

// Envelope is the on-disk wrapper around every artifact.
type Envelope struct {
	Kind         string          `json:"kind"`
	FeatureNames []string        `json:"feature_names,omitempty"`
	Params       json.RawMessage `json:"params"`
}

type validator interface {
	validate() error
}

// IsYAML reports whether path names a YAML encoded artifact.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Decode parses an artifact envelope and returns the concrete estimator it
// describes. YAML input is converted to JSON first.
func Decode(data []byte, isYAML bool) (any, error) {
	if isYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		data = converted
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if len(env.Params) == 0 {
		return nil, fmt.Errorf("%w: %q artifact has no params", ErrInvalidArtifact, env.Kind)
	}

	var (
		target any
		schema *Schema
	)
	switch env.Kind {
	case KindLinearRegressor:
		m := &LinearRegressor{}
		target, schema = m, &m.Schema
	case KindTreeRegressor:
		m := &TreeRegressor{}
		target, schema = m, &m.Schema
	case KindForestRegressor:
		m := &ForestRegressor{}
		target, schema = m, &m.Schema
	case KindLogisticClassifier:
		m := &LogisticClassifier{}
		target, schema = m, &m.Schema
	case KindTreeClassifier:
		m := &TreeClassifier{}
		target, schema = m, &m.Schema
	case KindForestClassifier:
		m := &ForestClassifier{}
		target, schema = m, &m.Schema
	case KindStandardScaler:
		m := &StandardScaler{}
		target, schema = m, &m.Schema
	case KindCategoryMapping:
		target = &CategoryMapping{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}

	dec := json.NewDecoder(bytes.NewReader(env.Params))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("%w: %s params: %v", ErrInvalidArtifact, env.Kind, err)
	}
	if schema != nil && len(env.FeatureNames) > 0 {
		schema.Features = env.FeatureNames
	}
	if err := target.(validator).validate(); err != nil {
		return nil, err
	}
	return target, nil
}

func DecodeRegressor(data []byte, isYAML bool) (Regressor, error) {
	v, err := Decode(data, isYAML)
	if err != nil {
		return nil, err
	}
	r, ok := v.(Regressor)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a regressor", ErrInvalidArtifact, v)
	}
	return r, nil
}

func DecodeClassifier(data []byte, isYAML bool) (Classifier, error) {
	v, err := Decode(data, isYAML)
	if err != nil {
		return nil, err
	}
	c, ok := v.(Classifier)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a classifier", ErrInvalidArtifact, v)
	}
	return c, nil
}

func DecodeScaler(data []byte, isYAML bool) (*StandardScaler, error) {
	v, err := Decode(data, isYAML)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*StandardScaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a scaler", ErrInvalidArtifact, v)
	}
	return s, nil
}

func DecodeMapping(data []byte, isYAML bool) (*CategoryMapping, error) {
	v, err := Decode(data, isYAML)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*CategoryMapping)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a category mapping", ErrInvalidArtifact, v)
	}
	return m, nil
}
