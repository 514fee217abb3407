// Package evaluate scores predictions against ground truth.
package evaluate

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
)

// Predictor labels every sample of a dataset
type Predictor interface {
	PredictDataset(ds *dataset.Dataset) ([]dataset.Species, error)
}

// ClassMetrics holds the per-class scores
type ClassMetrics struct {
	Species   dataset.Species `json:"species"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1"`
	Support   int             `json:"support"`
}

// Average holds an aggregate row of the classification report
type Average struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is the evaluation of one set of predictions
type Report struct {
	Accuracy    float64        `json:"accuracy"`
	Correct     int            `json:"correct"`
	Total       int            `json:"total"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    Average        `json:"macro_avg"`
	WeightedAvg Average        `json:"weighted_avg"`
	Confusion   [][]int        `json:"confusion"` // rows: truth, columns: prediction, indexed by species

	confusion *mat.Dense
}

// Evaluate predicts every test sample with m and scores the result
func Evaluate(m Predictor, test *dataset.Dataset) (*Report, error) {
	if test == nil || test.Len() == 0 {
		return nil, errors.NewInvalidRequestError("cannot evaluate on an empty test set")
	}
	predicted, err := m.PredictDataset(test)
	if err != nil {
		return nil, errors.Wrap(err, "predict test set")
	}
	return NewReport(test.Labels(), predicted)
}

// NewReport compares predicted labels with the truth. Classes appear in the
// report when they occur in either slice; a ratio with a zero denominator is 0.
func NewReport(truth, predicted []dataset.Species) (*Report, error) {
	if len(truth) != len(predicted) {
		return nil, errors.NewInvalidRequestError("got %d predictions for %d samples", len(predicted), len(truth))
	}
	if len(truth) == 0 {
		return nil, errors.NewInvalidRequestError("no samples to evaluate")
	}

	confusion := mat.NewDense(dataset.NumClasses, dataset.NumClasses, nil)
	for i := range truth {
		if !truth[i].Valid() || !predicted[i].Valid() {
			return nil, errors.NewInvalidRequestError("invalid label at position %d", i)
		}
		confusion.Set(int(truth[i]), int(predicted[i]), confusion.At(int(truth[i]), int(predicted[i]))+1)
	}

	total := len(truth)
	correct := int(mat.Trace(confusion))
	r := &Report{
		Accuracy:  float64(correct) / float64(total),
		Correct:   correct,
		Total:     total,
		confusion: confusion,
	}

	row := make([]float64, dataset.NumClasses)
	col := make([]float64, dataset.NumClasses)
	for _, sp := range dataset.AllSpecies() {
		c := int(sp)
		mat.Row(row, c, confusion)
		mat.Col(col, c, confusion)
		support := floats.Sum(row)
		predictedCount := floats.Sum(col)
		if support == 0 && predictedCount == 0 {
			continue
		}

		tp := confusion.At(c, c)
		precision := ratio(tp, predictedCount)
		recall := ratio(tp, support)
		r.Classes = append(r.Classes, ClassMetrics{
			Species:   sp,
			Precision: precision,
			Recall:    recall,
			F1:        ratio(2*precision*recall, precision+recall),
			Support:   int(support),
		})
	}

	var weighted Average
	for _, cm := range r.Classes {
		r.MacroAvg.Precision += cm.Precision
		r.MacroAvg.Recall += cm.Recall
		r.MacroAvg.F1 += cm.F1

		w := float64(cm.Support)
		weighted.Precision += w * cm.Precision
		weighted.Recall += w * cm.Recall
		weighted.F1 += w * cm.F1
	}
	n := float64(len(r.Classes))
	r.MacroAvg = Average{
		Precision: r.MacroAvg.Precision / n,
		Recall:    r.MacroAvg.Recall / n,
		F1:        r.MacroAvg.F1 / n,
		Support:   total,
	}
	r.WeightedAvg = Average{
		Precision: weighted.Precision / float64(total),
		Recall:    weighted.Recall / float64(total),
		F1:        weighted.F1 / float64(total),
		Support:   total,
	}

	r.Confusion = make([][]int, dataset.NumClasses)
	for i := range r.Confusion {
		r.Confusion[i] = make([]int, dataset.NumClasses)
		for j := range r.Confusion[i] {
			r.Confusion[i][j] = int(confusion.At(i, j))
		}
	}
	return r, nil
}

// ConfusionMatrix returns a copy of the confusion matrix
func (r *Report) ConfusionMatrix() *mat.Dense {
	return mat.DenseCopyOf(r.confusion)
}

// TotalSupport sums the per-class supports
func (r *Report) TotalSupport() int {
	var sum int
	for _, cm := range r.Classes {
		sum += cm.Support
	}
	return sum
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
