package predictor

import (
	"errors"
	"fmt"

	"SalarySentinel/internal/model"
)

// TreeNode is one node of a regression tree. Samples with
// features[Feature] <= Threshold go left.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Value     float64   `json:"value"`
	IsLeaf    bool      `json:"is_leaf"`
}

// ForestModel averages the predictions of its trees.
type ForestModel struct {
	NumFeatures int         `json:"num_features"`
	Trees       []*TreeNode `json:"trees"`
}

func (m *ForestModel) Predict(features []float64) (float64, error) {
	if len(m.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	if m.NumFeatures > 0 && len(features) != m.NumFeatures {
		return 0, fmt.Errorf("%w: model expects %d features, got %d",
			model.ErrFeatureMismatch, m.NumFeatures, len(features))
	}
	sum := 0.0
	for i, tree := range m.Trees {
		v, err := predictTree(tree, features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(m.Trees)), nil
}

func predictTree(node *TreeNode, features []float64) (float64, error) {
	for node != nil {
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0, fmt.Errorf("split on feature %d out of range", node.Feature)
		}
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return 0, errors.New("malformed tree: reached nil node")
}
