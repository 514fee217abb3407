package knn

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/vptree"

	"github.com/teranos/iris/errors"
)

// Strategy names a neighbour search implementation
type Strategy string

const (
	// SearchBrute scans every training sample
	SearchBrute Strategy = "brute"
	// SearchVPTree queries a vantage-point tree built at Fit time
	SearchVPTree Strategy = "vptree"
)

// Strategies lists the supported search strategies
func Strategies() []Strategy {
	return []Strategy{SearchBrute, SearchVPTree}
}

// ParseStrategy validates a strategy name; "" selects brute force
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return SearchBrute, nil
	}
	s := Strategy(name)
	if !slices.Contains(Strategies(), s) {
		return "", errors.WithHintf(
			errors.NewConfigError("unknown search strategy %q", name),
			"supported strategies: %v", Strategies())
	}
	return s, nil
}

type candidate struct {
	position int
	distance float64
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.distance, b.distance); c != 0 {
		return c
	}
	return cmp.Compare(a.position, b.position)
}

// searcher returns at least k candidates sorted by (distance, position)
type searcher interface {
	search(q []float64, k int) []candidate
}

func newSearcher(s Strategy, points [][]float64) (searcher, error) {
	switch s {
	case SearchBrute:
		return bruteSearcher{points: points}, nil
	case SearchVPTree:
		return newTreeSearcher(points)
	default:
		_, err := ParseStrategy(string(s))
		return nil, err
	}
}

type bruteSearcher struct {
	points [][]float64
}

func (b bruteSearcher) search(q []float64, k int) []candidate {
	all := make([]candidate, len(b.points))
	for i, p := range b.points {
		all[i] = candidate{position: i, distance: floats.Distance(p, q, 2)}
	}
	slices.SortFunc(all, compareCandidates)
	return all[:min(k, len(all))]
}

// treePoint is a distinct training vector and every position that holds it.
// The tree must never see two equal vectors: partitioning drops the element
// at distance zero from the vantage point, assuming it is the vantage itself.
type treePoint struct {
	positions []int
	v         []float64
}

func (p treePoint) Distance(c vptree.Comparable) float64 {
	return floats.Distance(p.v, c.(treePoint).v, 2)
}

type treeSearcher struct {
	points [][]float64
	tree   *vptree.Tree
}

// groupPoints collapses identical vectors, keeping positions ascending
func groupPoints(points [][]float64) []treePoint {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return slices.Compare(points[a], points[b])
	})

	var groups []treePoint
	for _, pos := range order {
		if n := len(groups); n > 0 && slices.Equal(groups[n-1].v, points[pos]) {
			groups[n-1].positions = append(groups[n-1].positions, pos)
			continue
		}
		groups = append(groups, treePoint{positions: []int{pos}, v: points[pos]})
	}
	return groups
}

func newTreeSearcher(points [][]float64) (*treeSearcher, error) {
	groups := groupPoints(points)
	comparables := make([]vptree.Comparable, len(groups))
	for i, g := range groups {
		comparables[i] = g
	}
	// A fixed source keeps the tree shape reproducible
	tree, err := vptree.New(comparables, 0, rand.NewPCG(1, 2))
	if err != nil {
		return nil, errors.Wrap(err, "build vantage-point tree")
	}

	seen := make([]bool, len(points))
	stored := 0
	tree.Do(func(c vptree.Comparable, _ int) bool {
		for _, pos := range c.(treePoint).positions {
			if seen[pos] {
				return true
			}
			seen[pos] = true
			stored++
		}
		return false
	})
	if stored != len(points) {
		return nil, errors.AssertionFailedf("vantage-point tree holds %d of %d training samples", stored, len(points))
	}
	return &treeSearcher{points: points, tree: tree}, nil
}

// search finds the k-th nearest distance with the tree, then collects every
// point within that radius so equidistant samples are ordered exactly as a
// brute force scan would order them
func (t *treeSearcher) search(q []float64, k int) []candidate {
	query := treePoint{v: q}

	// k groups hold at least k positions, so their farthest distance bounds
	// the k-th nearest sample
	nearest := vptree.NewNKeeper(k)
	t.tree.NearestSet(nearest, query)
	radius := 0.0
	found := 0
	for _, cd := range nearest.Heap {
		if cd.Comparable == nil {
			continue
		}
		found++
		radius = max(radius, cd.Dist)
	}
	if found == 0 {
		return nil
	}

	within := vptree.NewDistKeeper(radius)
	t.tree.NearestSet(within, query)

	var out []candidate
	for _, cd := range within.Heap {
		if cd.Comparable == nil {
			continue
		}
		for _, pos := range cd.Comparable.(treePoint).positions {
			out = append(out, candidate{position: pos, distance: floats.Distance(t.points[pos], q, 2)})
		}
	}
	slices.SortFunc(out, compareCandidates)
	return out[:min(k, len(out))]
}
