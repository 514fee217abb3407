package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
)

func seed(v int64) *int64 { return &v }

func bundled(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Bundled()
	require.NoError(t, err)
	return ds
}

func indices(ds *dataset.Dataset) []int {
	out := make([]int, ds.Len())
	for i := range out {
		out[i] = ds.At(i).Index
	}
	return out
}

func TestPartition_Default(t *testing.T) {
	ds := bundled(t)

	s, err := Partition(ds, Options{TrainRatio: DefaultTrainRatio, Seed: seed(42), Stratify: true})
	require.NoError(t, err)

	assert.Equal(t, 120, s.Train.Len())
	assert.Equal(t, 30, s.Test.Len())
	assert.Equal(t, int64(42), s.Seed)
	assert.True(t, s.Stratified)
	assert.Equal(t, [dataset.NumClasses]int{40, 40, 40}, s.Train.Counts())
	assert.Equal(t, [dataset.NumClasses]int{10, 10, 10}, s.Test.Counts())
}

func TestPartition_Deterministic(t *testing.T) {
	ds := bundled(t)
	for _, stratify := range []bool{true, false} {
		a, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(7), Stratify: stratify})
		require.NoError(t, err)
		b, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(7), Stratify: stratify})
		require.NoError(t, err)

		assert.Equal(t, indices(a.Train), indices(b.Train))
		assert.Equal(t, indices(a.Test), indices(b.Test))
	}
}

func TestPartition_SeedsDiffer(t *testing.T) {
	ds := bundled(t)
	a, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(1), Stratify: true})
	require.NoError(t, err)
	b, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(2), Stratify: true})
	require.NoError(t, err)

	assert.NotEqual(t, indices(a.Test), indices(b.Test))
}

func TestPartition_RandomSeedRecorded(t *testing.T) {
	ds := bundled(t)
	s, err := Partition(ds, Options{TrainRatio: 0.8, Stratify: true})
	require.NoError(t, err)

	replay, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(s.Seed), Stratify: true})
	require.NoError(t, err)
	assert.Equal(t, indices(s.Test), indices(replay.Test))
}

func TestPartition_Complete(t *testing.T) {
	ds := bundled(t)
	ratios := []float64{0.01, 0.1, 0.25, 0.5, 0.66, 0.8, 0.9, 0.99}

	for _, ratio := range ratios {
		for _, stratify := range []bool{true, false} {
			s, err := Partition(ds, Options{TrainRatio: ratio, Seed: seed(3), Stratify: stratify})
			require.NoError(t, err, "ratio %v", ratio)

			seen := make(map[int]int)
			for _, idx := range indices(s.Train) {
				seen[idx]++
			}
			for _, idx := range indices(s.Test) {
				seen[idx]++
			}
			assert.Len(t, seen, ds.Len(), "ratio %v: every sample appears", ratio)
			for idx, n := range seen {
				assert.Equal(t, 1, n, "ratio %v: sample %d on exactly one side", ratio, idx)
			}
			assert.Positive(t, s.Train.Len())
			assert.Positive(t, s.Test.Len())
		}
	}
}

func TestPartition_OriginalOrder(t *testing.T) {
	ds := bundled(t)
	s, err := Partition(ds, Options{TrainRatio: 0.8, Seed: seed(42), Stratify: true})
	require.NoError(t, err)

	assert.IsIncreasing(t, indices(s.Train))
	assert.IsIncreasing(t, indices(s.Test))
}

func TestPartition_TestSizeRounding(t *testing.T) {
	ds := bundled(t)
	tests := []struct {
		ratio    float64
		wantTest int
	}{
		{0.8, 30},
		{0.7, 45},
		{0.75, 38}, // 37.5 rounds half away from zero
		{0.9, 15},
	}
	for _, tt := range tests {
		s, err := Partition(ds, Options{TrainRatio: tt.ratio, Seed: seed(1), Stratify: true})
		require.NoError(t, err)
		assert.Equal(t, tt.wantTest, s.Test.Len(), "ratio %v", tt.ratio)

		var sum int
		for _, n := range s.Test.Counts() {
			sum += n
		}
		assert.Equal(t, tt.wantTest, sum)
	}
}

func TestPartition_StratifiedBalance(t *testing.T) {
	ds := bundled(t)
	s, err := Partition(ds, Options{TrainRatio: 0.75, Seed: seed(9), Stratify: true})
	require.NoError(t, err)

	// 38 test samples over three classes of 50: 13/13/12
	assert.Equal(t, [dataset.NumClasses]int{13, 13, 12}, s.Test.Counts())
}

func TestPartition_InvalidRatio(t *testing.T) {
	ds := bundled(t)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, err := Partition(ds, Options{TrainRatio: ratio, Seed: seed(1), Stratify: true})
		require.Error(t, err, "ratio %v", ratio)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "(0, 1)")
	}
}

func TestPartition_EmptySide(t *testing.T) {
	ds := bundled(t)

	// 150 * 0.001 rounds to 0 test samples
	_, err := Partition(ds, Options{TrainRatio: 0.999, Seed: seed(1)})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "empty subset")

	_, err = Partition(ds, Options{TrainRatio: 0.001, Seed: seed(1)})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		total int
		want  []int
	}{
		{"even", []int{50, 50, 50}, 30, []int{10, 10, 10}},
		{"tie goes to lower class", []int{50, 50, 50}, 31, []int{11, 10, 10}},
		{"two extra", []int{50, 50, 50}, 38, []int{13, 13, 12}},
		{"largest remainder", []int{10, 20, 30}, 7, []int{1, 2, 4}},
		{"all", []int{3, 4}, 7, []int{3, 4}},
		{"empty", []int{0, 0}, 0, []int{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apportion(tt.sizes, tt.total))
		})
	}
}
