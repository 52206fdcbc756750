package estimator

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a flattened binary decision tree. A node whose
// Left child is negative is a leaf. For regression trees Value holds the
// single leaf prediction; for classification trees it holds class counts or
// weights, one per class.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

func (n TreeNode) isLeaf() bool { return n.Left < 0 }

// Tree is a flattened decision tree rooted at node 0. Samples with
// x[feature] <= threshold descend left.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *Tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if len(n.Value) != width {
				return fmt.Errorf("%w: leaf %d has %d values, want %d", ErrInvalidArtifact, i, len(n.Value), width)
			}
			continue
		}
		// Children must point forward so evaluation always terminates.
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has out of range children", ErrInvalidArtifact, i)
		}
		if n.Feature < 0 {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrInvalidArtifact, i, n.Feature)
		}
	}
	return nil
}

func (t *Tree) leaf(x []float64) ([]float64, error) {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.isLeaf() {
			return n.Value, nil
		}
		if n.Feature >= len(x) {
			return nil, fmt.Errorf("%w: split on feature %d of %d", ErrShapeMismatch, n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// TreeRegressor is a single regression tree.
type TreeRegressor struct {
	Schema
	Tree
}

func (m *TreeRegressor) validate() error {
	return m.Tree.validate(1)
}

func (m *TreeRegressor) Predict(x []float64) (float64, error) {
	if err := checkWidth(len(m.Features), x); err != nil {
		return 0, err
	}
	v, err := m.leaf(x)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// TreeClassifier is a single classification tree.
type TreeClassifier struct {
	Schema
	Tree
	Classes []int `json:"classes,omitempty"`
	NClass  int   `json:"n_classes"`
}

func (m *TreeClassifier) validate() error {
	if m.NClass <= 0 {
		return fmt.Errorf("%w: n_classes must be positive", ErrInvalidArtifact)
	}
	if len(m.Classes) > 0 && len(m.Classes) != m.NClass {
		return fmt.Errorf("%w: %d class labels for %d classes", ErrInvalidArtifact, len(m.Classes), m.NClass)
	}
	return m.Tree.validate(m.NClass)
}

func (m *TreeClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(len(m.Features), x); err != nil {
		return nil, err
	}
	v, err := m.leaf(x)
	if err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func (m *TreeClassifier) Predict(x []float64) (int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classLabel(m.Classes, argmax(proba)), nil
}

// ForestRegressor averages the predictions of its trees.
type ForestRegressor struct {
	Schema
	Trees []Tree `json:"trees"`
}

func (m *ForestRegressor) validate() error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
	}
	var errs []error
	for i := range m.Trees {
		if err := m.Trees[i].validate(1); err != nil {
			errs = append(errs, fmt.Errorf("tree %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (m *ForestRegressor) Predict(x []float64) (float64, error) {
	if err := checkWidth(len(m.Features), x); err != nil {
		return 0, err
	}
	var sum float64
	for i := range m.Trees {
		v, err := m.Trees[i].leaf(x)
		if err != nil {
			return 0, err
		}
		sum += v[0]
	}
	return sum / float64(len(m.Trees)), nil
}

// ForestClassifier averages the normalized class distributions of its trees.
type ForestClassifier struct {
	Schema
	Trees   []Tree `json:"trees"`
	Classes []int  `json:"classes,omitempty"`
	NClass  int    `json:"n_classes"`
}

func (m *ForestClassifier) validate() error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
	}
	if m.NClass <= 0 {
		return fmt.Errorf("%w: n_classes must be positive", ErrInvalidArtifact)
	}
	if len(m.Classes) > 0 && len(m.Classes) != m.NClass {
		return fmt.Errorf("%w: %d class labels for %d classes", ErrInvalidArtifact, len(m.Classes), m.NClass)
	}
	var errs []error
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.NClass); err != nil {
			errs = append(errs, fmt.Errorf("tree %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (m *ForestClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(len(m.Features), x); err != nil {
		return nil, err
	}
	out := make([]float64, m.NClass)
	for i := range m.Trees {
		v, err := m.Trees[i].leaf(x)
		if err != nil {
			return nil, err
		}
		for k, p := range normalize(v) {
			out[k] += p
		}
	}
	for k := range out {
		out[k] /= float64(len(m.Trees))
	}
	return out, nil
}

func (m *ForestClassifier) Predict(x []float64) (int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classLabel(m.Classes, argmax(proba)), nil
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for _, c := range v {
		sum += c
	}
	if sum == 0 {
		return out
	}
	for i, c := range v {
		out[i] = c / sum
	}
	return out
}
