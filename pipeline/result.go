package pipeline

import (
	"time"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/evaluate"
	"github.com/teranos/iris/knn"
)

// Result summarises one pipeline run
type Result struct {
	RunID      string             `json:"run_id"`
	Dataset    DatasetInfo        `json:"dataset"`
	Split      SplitInfo          `json:"split"`
	Model      ModelInfo          `json:"model"`
	Evaluation *evaluate.Report   `json:"evaluation"`
	Samples    []SamplePrediction `json:"sample_predictions,omitempty"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	DurationMS int64              `json:"duration_ms"`
}

// DatasetInfo describes the loaded dataset
type DatasetInfo struct {
	Source       string                  `json:"source"`
	Samples      int                     `json:"samples"`
	Features     int                     `json:"features"`
	FeatureNames []string                `json:"feature_names"`
	Classes      []dataset.Species       `json:"classes"`
	Counts       [dataset.NumClasses]int `json:"counts"`
}

// SplitInfo describes the train/test partition
type SplitInfo struct {
	TrainRatio float64 `json:"train_ratio"`
	Seed       int64   `json:"seed"`
	Stratified bool    `json:"stratified"`
	Train      int     `json:"train"`
	Test       int     `json:"test"`
}

// ModelInfo describes the fitted classifier
type ModelInfo struct {
	K            int          `json:"k"`
	Search       knn.Strategy `json:"search"`
	Standardized bool         `json:"standardized"`
}

// SamplePrediction is the classification of one ad-hoc flower
type SamplePrediction struct {
	Features  [dataset.NumFeatures]float64 `json:"features"`
	Predicted dataset.Species              `json:"predicted"`
	Neighbors []knn.Neighbor               `json:"neighbors,omitempty"`
}

func (r *Result) fill(c *Classifier) {
	r.Dataset = DatasetInfo{
		Source:       c.Dataset.Source(),
		Samples:      c.Dataset.Len(),
		Features:     dataset.NumFeatures,
		FeatureNames: dataset.FeatureNames[:],
		Classes:      c.Dataset.Classes(),
		Counts:       c.Dataset.Counts(),
	}
	r.Split = SplitInfo{
		TrainRatio: c.Split.TrainRatio,
		Seed:       c.Split.Seed,
		Stratified: c.Split.Stratified,
		Train:      c.Split.Train.Len(),
		Test:       c.Split.Test.Len(),
	}
	r.Model = ModelInfo{
		K:            c.Model.K(),
		Search:       c.Model.Strategy(),
		Standardized: c.Scaler != nil,
	}
}
