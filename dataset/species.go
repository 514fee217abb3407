package dataset

import (
	"strings"

	"github.com/teranos/iris/errors"
)

// Species is the class label of an iris sample
type Species int

const (
	Setosa Species = iota
	Versicolor
	Virginica
)

// NumClasses is the number of species
const NumClasses = 3

var speciesNames = [NumClasses]string{"setosa", "versicolor", "virginica"}

// AllSpecies returns every species in class-index order
func AllSpecies() []Species {
	return []Species{Setosa, Versicolor, Virginica}
}

// Valid reports whether s is one of the known species
func (s Species) Valid() bool {
	return s >= 0 && int(s) < NumClasses
}

func (s Species) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return speciesNames[s]
}

// ParseSpecies accepts the bare names and the UCI "Iris-" spellings,
// case-insensitively
func ParseSpecies(name string) (Species, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "iris-")
	for i, n := range speciesNames {
		if n == normalized {
			return Species(i), nil
		}
	}
	return -1, errors.NewInvalidRequestError("unknown species %q", name)
}

// MarshalText encodes the species by name so JSON output stays readable
func (s Species) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.NewInvalidRequestError("invalid species %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a species name
func (s *Species) UnmarshalText(text []byte) error {
	parsed, err := ParseSpecies(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
