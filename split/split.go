// Package split partitions a dataset into training and test subsets.
package split

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
)

// DefaultTrainRatio keeps 80% of the samples for training
const DefaultTrainRatio = 0.8

// Options controls Partition
type Options struct {
	TrainRatio float64 // fraction of samples used for training, in (0, 1)
	Seed       *int64  // nil draws a seed from the clock
	Stratify   bool    // keep class proportions in both subsets
}

// Split is a partition of a dataset into two disjoint, exhaustive subsets
type Split struct {
	Train      *dataset.Dataset
	Test       *dataset.Dataset
	TrainRatio float64
	Seed       int64 // seed actually used, also when Options.Seed was nil
	Stratified bool
}

// Partition splits ds according to opts. The test subset holds
// round(N * (1 - TrainRatio)) samples; both subsets keep the original row order.
func Partition(ds *dataset.Dataset, opts Options) (*Split, error) {
	if !(opts.TrainRatio > 0 && opts.TrainRatio < 1) {
		return nil, errors.WithHint(
			errors.NewConfigError("train ratio must be in (0, 1), got %v", opts.TrainRatio),
			"both the training and the test subset must be non-empty")
	}

	n := ds.Len()
	nTest := int(math.Round(float64(n) * (1 - opts.TrainRatio)))
	if nTest < 1 || nTest > n-1 {
		return nil, errors.WithHintf(
			errors.NewConfigError("train ratio %v leaves an empty subset for %d samples (%d train, %d test)",
				opts.TrainRatio, n, n-nTest, nTest),
			"choose a ratio that puts at least one sample on each side")
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := newRand(seed)

	var testPositions []int
	if opts.Stratify {
		testPositions = stratifiedTest(ds, nTest, rng)
	} else {
		positions := rng.Perm(n)
		testPositions = positions[:nTest]
	}

	inTest := make([]bool, n)
	for _, p := range testPositions {
		inTest[p] = true
	}
	trainPositions := make([]int, 0, n-nTest)
	ordered := make([]int, 0, nTest)
	for p := 0; p < n; p++ {
		if inTest[p] {
			ordered = append(ordered, p)
		} else {
			trainPositions = append(trainPositions, p)
		}
	}

	train, err := ds.Subset(trainPositions)
	if err != nil {
		return nil, err
	}
	test, err := ds.Subset(ordered)
	if err != nil {
		return nil, err
	}

	return &Split{
		Train:      train,
		Test:       test,
		TrainRatio: opts.TrainRatio,
		Seed:       seed,
		Stratified: opts.Stratify,
	}, nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// stratifiedTest shuffles each class separately and takes its quota of test
// positions from the front
func stratifiedTest(ds *dataset.Dataset, nTest int, rng *rand.Rand) []int {
	byClass := make([][]int, dataset.NumClasses)
	for p := 0; p < ds.Len(); p++ {
		sp := ds.At(p).Species
		byClass[sp] = append(byClass[sp], p)
	}

	sizes := make([]int, dataset.NumClasses)
	for c, members := range byClass {
		sizes[c] = len(members)
	}
	quotas := apportion(sizes, nTest)

	var test []int
	for c, members := range byClass {
		shuffled := slices.Clone(members)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		test = append(test, shuffled[:quotas[c]]...)
	}
	return test
}

// apportion distributes total over classes proportionally to sizes using
// largest remainders; equal remainders favour the lower class index
func apportion(sizes []int, total int) []int {
	n := 0
	for _, s := range sizes {
		n += s
	}
	quotas := make([]int, len(sizes))
	if n == 0 {
		return quotas
	}

	type remainder struct {
		class int
		frac  float64
	}
	rems := make([]remainder, 0, len(sizes))
	assigned := 0
	for c, s := range sizes {
		exact := float64(s) * float64(total) / float64(n)
		quotas[c] = int(math.Floor(exact))
		assigned += quotas[c]
		rems = append(rems, remainder{class: c, frac: exact - float64(quotas[c])})
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; assigned < total; i = (i + 1) % len(rems) {
		c := rems[i].class
		if quotas[c] < sizes[c] {
			quotas[c]++
			assigned++
		}
	}
	return quotas
}
