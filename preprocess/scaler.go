// Package preprocess standardises feature vectors before classification.
package preprocess

import (
	"gonum.org/v1/gonum/stat"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
)

// Scaler maps each feature to zero mean and unit population variance, using
// statistics fitted on one dataset (the training subset)
type Scaler struct {
	Mean [dataset.NumFeatures]float64 `json:"mean"`
	Std  [dataset.NumFeatures]float64 `json:"std"`
}

// FitScaler computes per-feature mean and population standard deviation
func FitScaler(ds *dataset.Dataset) (*Scaler, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.NewInvalidRequestError("cannot fit scaler on an empty dataset")
	}

	column := make([]float64, ds.Len())
	s := &Scaler{}
	for j := 0; j < dataset.NumFeatures; j++ {
		for i := 0; i < ds.Len(); i++ {
			column[i] = ds.At(i).Features[j]
		}
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(column, nil)
	}
	return s, nil
}

// Transform standardises one feature vector. A feature with zero variance is
// centred but not scaled.
func (s *Scaler) Transform(features [dataset.NumFeatures]float64) [dataset.NumFeatures]float64 {
	var out [dataset.NumFeatures]float64
	for j, v := range features {
		out[j] = v - s.Mean[j]
		if s.Std[j] != 0 {
			out[j] /= s.Std[j]
		}
	}
	return out
}

// TransformDataset returns a new dataset with every sample standardised.
// Labels and row indices are kept.
func (s *Scaler) TransformDataset(ds *dataset.Dataset) *dataset.Dataset {
	samples := ds.Samples()
	for i := range samples {
		samples[i].Features = s.Transform(samples[i].Features)
	}
	return dataset.New(ds.Source(), samples)
}
