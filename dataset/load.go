package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/teranos/iris/errors"
)

// BundledSource is the source name of the embedded dataset
const BundledSource = "bundled"

// BundledSize is the number of rows in the embedded dataset
const BundledSize = 150

//go:embed iris.csv
var bundledCSV []byte

// Bundled parses the embedded dataset. A failure means the binary itself is
// broken and is reported as an environment error.
func Bundled() (*Dataset, error) {
	ds, err := ReadCSV(bytes.NewReader(bundledCSV), BundledSource)
	if err != nil {
		return nil, errors.WrapEnvironment(err, "parse bundled dataset")
	}
	if ds.Len() != BundledSize {
		return nil, errors.NewEnvironmentError("bundled dataset has %d rows, expected %d", ds.Len(), BundledSize)
	}
	for sp, n := range ds.Counts() {
		if n != BundledSize/NumClasses {
			return nil, errors.NewEnvironmentError("bundled dataset has %d %s rows, expected %d",
				n, Species(sp), BundledSize/NumClasses)
		}
	}
	return ds, nil
}

// Load returns the bundled dataset for "" or "bundled", otherwise reads the
// CSV file at source
func Load(source string) (*Dataset, error) {
	if source == "" || source == BundledSource {
		return Bundled()
	}

	f, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.NewNotFoundError("dataset file %s does not exist", source),
				"omit --dataset to use the bundled iris data")
		}
		return nil, errors.WrapEnvironment(err, "open dataset "+source)
	}
	defer f.Close()

	return ReadCSV(f, source)
}

// ReadCSV parses rows of four measurements followed by a species name. A
// header row is detected when its first field is not a number.
func ReadCSV(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var samples []Sample
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapInvalidRequest(err, "read "+source)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		sample, err := parseRecord(record, len(samples))
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", source, line)
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, errors.NewInvalidRequestError("%s contains no samples", source)
	}

	return &Dataset{source: source, samples: samples}, nil
}

func parseRecord(record []string, index int) (Sample, error) {
	if len(record) != NumFeatures+1 {
		return Sample{}, errors.NewInvalidRequestError("expected %d fields, got %d", NumFeatures+1, len(record))
	}

	sample := Sample{Index: index}
	for j := 0; j < NumFeatures; j++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
		if err != nil {
			return Sample{}, errors.WrapInvalidRequest(err, "parse "+FeatureNames[j])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, errors.NewInvalidRequestError("%s is not a finite number: %s", FeatureNames[j], record[j])
		}
		sample.Features[j] = v
	}

	species, err := ParseSpecies(record[NumFeatures])
	if err != nil {
		return Sample{}, err
	}
	sample.Species = species
	return sample, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	return err != nil
}
