// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feature parses MS1 feature tables: tab-separated files with a
// header row carrying at least an MZ and an RT column. The feature id
// comes from an id column when present, otherwise from the first column.
package feature

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/gnpslink/pkg/types"
)

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrNoRows        = errors.New("no parseable feature rows")
)

var (
	mzAliases = []string{"mz", "m/z", "parentmass"}
	rtAliases = []string{"rt", "rtmean", "retentiontime"}
	idAliases = []string{"id", "featureid", "rowid"}
)

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimPrefix(s, "#")
	return s
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if normalizeHeader(cell) == alias {
				return i
			}
		}
	}
	return -1
}

// ParseTable reads a feature table from r. Rows with non-numeric MZ or RT
// are skipped with a warning on w; a header without MZ or RT columns is a
// fatal error.
func ParseTable(r io.Reader, w io.Writer) ([]types.Feature, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading feature table header: %w", err)
	}

	mzCol := findColumn(header, mzAliases)
	rtCol := findColumn(header, rtAliases)
	if mzCol < 0 {
		return nil, fmt.Errorf("%w: MZ", ErrMissingColumn)
	}
	if rtCol < 0 {
		return nil, fmt.Errorf("%w: RT", ErrMissingColumn)
	}
	idCol := findColumn(header, idAliases)
	if idCol < 0 {
		idCol = 0
	}

	var features []types.Feature
	skipped := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "warning: line %d: %v: skipping row\n", line, err)
			skipped++
			continue
		}
		if len(record) <= mzCol || len(record) <= rtCol || len(record) <= idCol {
			fmt.Fprintf(w, "warning: line %d: short row: skipping row\n", line)
			skipped++
			continue
		}
		mz, err := strconv.ParseFloat(strings.TrimSpace(record[mzCol]), 64)
		if err != nil {
			fmt.Fprintf(w, "warning: line %d: MZ %q not numeric: skipping row\n", line, record[mzCol])
			skipped++
			continue
		}
		rt, err := strconv.ParseFloat(strings.TrimSpace(record[rtCol]), 64)
		if err != nil {
			fmt.Fprintf(w, "warning: line %d: RT %q not numeric: skipping row\n", line, record[rtCol])
			skipped++
			continue
		}
		features = append(features, types.Feature{
			ID: strings.TrimSpace(record[idCol]),
			MZ: mz,
			RT: rt,
		})
	}

	if len(features) == 0 && skipped > 0 {
		return nil, fmt.Errorf("%w: all %d data rows malformed", ErrNoRows, skipped)
	}
	return features, nil
}

// LoadTableFile opens and parses a feature table from disk.
func LoadTableFile(path string, w io.Writer) ([]types.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feature table: %w", err)
	}
	defer f.Close()

	features, err := ParseTable(f, w)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return features, nil
}
