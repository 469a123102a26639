// Package csvio is the CSV boundary: csvutil-backed typed readers and
// writers for every pipeline artifact, plus raw input discovery.
package csvio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jszwec/csvutil"

	"github.com/kaelinwanghu/swingvisualizer/internal/common"
)

// ReadAll decodes a whole CSV file into typed rows via header mapping.
func ReadAll[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var rows []T
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rows, nil
}

// WriteAll encodes typed rows to a CSV file, header first.
func WriteAll[T any](path string, rows []T) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadArtifact reads a pipeline artifact, translating a missing file into
// an error naming the stage that produces it.
func ReadArtifact[T any](path, producedBy string) ([]T, error) {
	rows, err := ReadAll[T](path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil, common.NewMissingInputError(path, producedBy, err)
	}
	return rows, err
}

// DiscoverRawReturns finds the MIT Election Lab county returns file in the
// raw directory. The download is versioned (countypres_2000-2024.csv and
// similar), so this matches the prefix and takes the newest vintage when
// several are present.
func DiscoverRawReturns(rawDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(rawDir, "countypres*.csv"))
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", rawDir, err)
	}
	if len(matches) == 0 {
		return "", common.NewMissingInputError(
			filepath.Join(rawDir, "countypres*.csv"), "download", fs.ErrNotExist)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
