package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	ClassifierLinear = "linear"
	ClassifierTree   = "tree"
)

type Classifier interface {
	Predict(features []float64) (int, error)
}

// LinearClassifier scores every class as coef·x + intercept and picks the best.
// A single coefficient row with two classes is the binary form: a positive
// score selects Classes[1].
type LinearClassifier struct {
	Classes   []int
	weights   *mat.Dense
	intercept *mat.VecDense
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// TreeClassifier walks a flattened decision tree; node 0 is the root.
type TreeClassifier struct {
	nodes []TreeNode
}

type classifierFile struct {
	Kind      string      `json:"kind"`
	Classes   []int       `json:"classes,omitempty"`
	Coef      [][]float64 `json:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty"`
	Nodes     []TreeNode  `json:"nodes,omitempty"`
}

func LoadClassifier(path string) (Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file classifierFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("decode classifier %s: %w", path, err)
	}

	switch file.Kind {
	case ClassifierLinear:
		c, err := NewLinearClassifier(file.Classes, file.Coef, file.Intercept)
		if err != nil {
			return nil, fmt.Errorf("classifier %s: %w", path, err)
		}
		return c, nil
	case ClassifierTree:
		c, err := NewTreeClassifier(file.Nodes)
		if err != nil {
			return nil, fmt.Errorf("classifier %s: %w", path, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("classifier %s: unsupported kind %q", path, file.Kind)
	}
}

func NewLinearClassifier(classes []int, coef [][]float64, intercept []float64) (*LinearClassifier, error) {
	if len(classes) < 2 {
		return nil, errors.New("linear classifier needs at least two classes")
	}
	rows := len(coef)
	binary := len(classes) == 2 && rows == 1
	if !binary && rows != len(classes) {
		return nil, fmt.Errorf("coef has %d rows for %d classes", rows, len(classes))
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("intercept has %d entries, want %d", len(intercept), rows)
	}

	data := make([]float64, 0, rows*FeatureCount)
	for i, row := range coef {
		if len(row) != FeatureCount {
			return nil, fmt.Errorf("coef row %d has %d entries, want %d", i, len(row), FeatureCount)
		}
		data = append(data, row...)
	}

	return &LinearClassifier{
		Classes:   append([]int(nil), classes...),
		weights:   mat.NewDense(rows, FeatureCount, data),
		intercept: mat.NewVecDense(rows, append([]float64(nil), intercept...)),
	}, nil
}

func (c *LinearClassifier) Predict(features []float64) (int, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(features), FeatureCount)
	}
	rows, _ := c.weights.Dims()
	scores := mat.NewVecDense(rows, nil)
	scores.MulVec(c.weights, mat.NewVecDense(FeatureCount, features))
	scores.AddVec(scores, c.intercept)

	if rows == 1 {
		if scores.AtVec(0) > 0 {
			return c.Classes[1], nil
		}
		return c.Classes[0], nil
	}
	return c.Classes[floats.MaxIdx(scores.RawVector().Data)], nil
}

func NewTreeClassifier(nodes []TreeNode) (*TreeClassifier, error) {
	if len(nodes) == 0 {
		return nil, errors.New("decision tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= FeatureCount {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		// Children always follow their parent in the flattened layout, which also rules out cycles.
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("node %d: invalid child %d", i, child)
			}
		}
	}
	return &TreeClassifier{nodes: nodes}, nil
}

func (t *TreeClassifier) Predict(features []float64) (int, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(features), FeatureCount)
	}
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
