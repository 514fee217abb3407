// Package dataset holds the labelled iris measurements.
//
// The 150-row dataset ships inside the binary; Load also accepts a CSV path
// with the same layout.
package dataset

import (
	"github.com/teranos/iris/errors"
)

// NumFeatures is the length of every feature vector
const NumFeatures = 4

// FeatureNames in column order
var FeatureNames = [NumFeatures]string{
	"sepal length (cm)",
	"sepal width (cm)",
	"petal length (cm)",
	"petal width (cm)",
}

// Sample is one labelled flower. Index is its row in the source dataset and
// survives subsetting.
type Sample struct {
	Index    int                  `json:"index"`
	Features [NumFeatures]float64 `json:"features"`
	Species  Species              `json:"species"`
}

// Dataset is an ordered, immutable collection of samples
type Dataset struct {
	source  string
	samples []Sample
}

// New builds a dataset from samples. The slice is copied.
func New(source string, samples []Sample) *Dataset {
	return &Dataset{
		source:  source,
		samples: append([]Sample(nil), samples...),
	}
}

// Source describes where the samples came from
func (d *Dataset) Source() string {
	return d.source
}

// Len returns the number of samples
func (d *Dataset) Len() int {
	return len(d.samples)
}

// At returns the i-th sample
func (d *Dataset) At(i int) Sample {
	return d.samples[i]
}

// Samples returns a copy of the samples
func (d *Dataset) Samples() []Sample {
	return append([]Sample(nil), d.samples...)
}

// Features returns the feature vectors as fresh slices, one per sample
func (d *Dataset) Features() [][]float64 {
	out := make([][]float64, len(d.samples))
	for i, s := range d.samples {
		out[i] = append([]float64(nil), s.Features[:]...)
	}
	return out
}

// Labels returns the species of every sample in order
func (d *Dataset) Labels() []Species {
	out := make([]Species, len(d.samples))
	for i, s := range d.samples {
		out[i] = s.Species
	}
	return out
}

// Counts returns the number of samples per species, indexed by Species
func (d *Dataset) Counts() [NumClasses]int {
	var counts [NumClasses]int
	for _, s := range d.samples {
		counts[s.Species]++
	}
	return counts
}

// Classes returns the species present in the dataset in class-index order
func (d *Dataset) Classes() []Species {
	counts := d.Counts()
	var classes []Species
	for _, sp := range AllSpecies() {
		if counts[sp] > 0 {
			classes = append(classes, sp)
		}
	}
	return classes
}

// Subset returns the samples at the given positions, in the order given
func (d *Dataset) Subset(positions []int) (*Dataset, error) {
	samples := make([]Sample, 0, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(d.samples) {
			return nil, errors.NewInvalidRequestError("subset position %d out of range [0, %d)", p, len(d.samples))
		}
		samples = append(samples, d.samples[p])
	}
	return &Dataset{source: d.source, samples: samples}, nil
}
