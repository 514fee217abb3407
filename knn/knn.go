// Package knn implements a k-nearest-neighbours classifier with Euclidean
// distance and majority voting.
//
// Ties in the vote go to the tied species whose member is nearest to the
// query, with neighbours ordered by (distance, training position). The result
// is deterministic for a fixed training order and independent of the search
// strategy.
package knn

import (
	"slices"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
)

// DefaultK is the neighbour count used when none is configured
const DefaultK = 5

// Neighbor is one training sample returned by a neighbour search
type Neighbor struct {
	Position int             `json:"position"` // position in the training set
	Row      int             `json:"row"`      // row index in the source dataset
	Distance float64         `json:"distance"`
	Species  dataset.Species `json:"species"`
}

// Model is a fitted classifier. It is read-only after Fit.
type Model struct {
	k        int
	points   [][]float64
	labels   []dataset.Species
	rows     []int
	strategy Strategy
	searcher searcher
}

type options struct {
	strategy Strategy
}

// Option configures Fit
type Option func(*options)

// WithSearch selects the neighbour search strategy
func WithSearch(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// Fit stores the training samples and prepares the neighbour search.
// k must lie in [1, train.Len()].
func Fit(train *dataset.Dataset, k int, opts ...Option) (*Model, error) {
	o := options{strategy: SearchBrute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.strategy == "" {
		o.strategy = SearchBrute
	}

	if train == nil || train.Len() == 0 {
		return nil, errors.NewConfigError("cannot fit on an empty training set")
	}
	if k < 1 {
		return nil, errors.NewConfigError("k must be >= 1, got %d", k)
	}
	if k > train.Len() {
		return nil, errors.WithHintf(
			errors.NewConfigError("k=%d exceeds the %d training samples", k, train.Len()),
			"use k <= %d or a larger train ratio", train.Len())
	}

	m := &Model{
		k:        k,
		points:   train.Features(),
		labels:   train.Labels(),
		rows:     make([]int, train.Len()),
		strategy: o.strategy,
	}
	for i := range m.rows {
		m.rows[i] = train.At(i).Index
	}

	s, err := newSearcher(o.strategy, m.points)
	if err != nil {
		return nil, err
	}
	m.searcher = s
	return m, nil
}

// K returns the neighbour count
func (m *Model) K() int {
	return m.k
}

// Strategy returns the neighbour search strategy in use
func (m *Model) Strategy() Strategy {
	return m.strategy
}

// TrainingSize returns the number of stored training samples
func (m *Model) TrainingSize() int {
	return len(m.points)
}

// Neighbors returns the k training samples nearest to features, ordered by
// (distance, training position)
func (m *Model) Neighbors(features [dataset.NumFeatures]float64) ([]Neighbor, error) {
	candidates := m.searcher.search(features[:], m.k)
	if len(candidates) < m.k {
		return nil, errors.AssertionFailedf("neighbour search returned %d of %d candidates", len(candidates), m.k)
	}

	neighbors := make([]Neighbor, m.k)
	for i, c := range candidates[:m.k] {
		neighbors[i] = Neighbor{
			Position: c.position,
			Row:      m.rows[c.position],
			Distance: c.distance,
			Species:  m.labels[c.position],
		}
	}
	return neighbors, nil
}

// Predict returns the majority species among the k nearest neighbours
func (m *Model) Predict(features [dataset.NumFeatures]float64) (dataset.Species, error) {
	neighbors, err := m.Neighbors(features)
	if err != nil {
		return -1, err
	}
	return Vote(neighbors), nil
}

// PredictDataset predicts every sample of ds in order
func (m *Model) PredictDataset(ds *dataset.Dataset) ([]dataset.Species, error) {
	predictions := make([]dataset.Species, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		p, err := m.Predict(ds.At(i).Features)
		if err != nil {
			return nil, errors.Wrapf(err, "predict row %d", ds.At(i).Index)
		}
		predictions[i] = p
	}
	return predictions, nil
}

// Vote returns the most frequent species among neighbours, which must be
// ordered nearest first. A tie goes to the tied species that appears first.
func Vote(neighbors []Neighbor) dataset.Species {
	var counts [dataset.NumClasses]int
	for _, n := range neighbors {
		counts[n.Species]++
	}
	best := slices.Max(counts[:])
	for _, n := range neighbors {
		if counts[n.Species] == best {
			return n.Species
		}
	}
	return -1
}
