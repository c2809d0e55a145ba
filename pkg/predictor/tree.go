package predictor

import (
	"errors"
	"fmt"

	"github.com/churnlabs/churnserve/pkg/feature"
)

// TreeNode is one node of a decision tree stored as a flat array. Leaves
// carry both the class label and the class-1 probability observed at fit
// time; the two are independent values reported as-is.
type TreeNode struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	IsLeaf      bool    `json:"is_leaf"`
	ClassLabel  int     `json:"class_label"`
	Probability float64 `json:"probability"`
}

// TreeModel walks a fitted binary decision tree.
type TreeModel struct {
	nodes []TreeNode
}

func NewTreeModel(nodes []TreeNode) (*TreeModel, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	for i, n := range nodes {
		if n.IsLeaf {
			if n.ClassLabel != 0 && n.ClassLabel != 1 {
				return nil, fmt.Errorf("node %d: class label %d outside {0,1}", i, n.ClassLabel)
			}
			if n.Probability < 0 || n.Probability > 1 {
				return nil, fmt.Errorf("node %d: probability %v outside [0,1]", i, n.Probability)
			}
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= feature.VectorSize {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, n.FeatureIdx)
		}
		if n.LeftChild < 0 || n.LeftChild >= len(nodes) || n.RightChild < 0 || n.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return &TreeModel{nodes: append([]TreeNode(nil), nodes...)}, nil
}

func (m *TreeModel) Classify(vec feature.Vector) (int, error) {
	leaf, err := m.walk(vec)
	if err != nil {
		return 0, err
	}
	return leaf.ClassLabel, nil
}

func (m *TreeModel) Score(vec feature.Vector) (float64, error) {
	leaf, err := m.walk(vec)
	if err != nil {
		return 0, err
	}
	return leaf.Probability, nil
}

func (m *TreeModel) walk(vec feature.Vector) (*TreeNode, error) {
	if len(vec) != feature.VectorSize {
		return nil, fmt.Errorf("expected %d features, got %d", feature.VectorSize, len(vec))
	}
	idx := 0
	// A sound tree reaches a leaf within len(nodes) hops; the bound guards
	// against cyclic child links in a hand-edited artifact.
	for steps := 0; steps <= len(m.nodes); steps++ {
		node := &m.nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if vec[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return nil, errors.New("tree walk did not terminate")
}
