// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gnps

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

// Parse failures that abort a load. Per-row problems are skipped with a
// warning instead; see ParseAnnotations.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrNoRows        = errors.New("no parseable annotation rows")
)

// ParseSummary holds counts from one annotation table parse.
type ParseSummary struct {
	Parsed  int
	Skipped int
}

// annColumns maps required and optional annotation columns to their index
// in the header row. link is -1 when the table has no link column.
type annColumns struct {
	mz      int
	rt      int
	library int
	cluster int
	link    int
}

// normalizeHeader folds a header cell to a comparable key: lowercase with
// spaces, underscores, and leading markers removed. GNPS exports are not
// consistent about any of those.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimPrefix(s, "#")
	return s
}

// Header aliases seen across GNPS cluster summary exports. The canonical
// names are the ones the Calour plugin reads: "parent mass", "RTMean",
// "LibraryID", "cluster index", "ProteoSAFeClusterLink".
var (
	mzAliases      = []string{"parentmass", "precursormass", "mz"}
	rtAliases      = []string{"rtmean", "rtconsensus", "rt"}
	libraryAliases = []string{"libraryid", "library"}
	clusterAliases = []string{"clusterindex", "clusterindx", "clusterid"}
	linkAliases    = []string{"proteosafeclusterlink", "gnpslinkoutcluster", "link"}
)

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

func resolveColumns(header []string) (annColumns, error) {
	cols := annColumns{
		mz:      findColumn(header, mzAliases),
		rt:      findColumn(header, rtAliases),
		library: findColumn(header, libraryAliases),
		cluster: findColumn(header, clusterAliases),
		link:    findColumn(header, linkAliases),
	}
	switch {
	case cols.mz < 0:
		return cols, fmt.Errorf("%w: parent mass", ErrMissingColumn)
	case cols.rt < 0:
		return cols, fmt.Errorf("%w: RTMean", ErrMissingColumn)
	case cols.library < 0:
		return cols, fmt.Errorf("%w: LibraryID", ErrMissingColumn)
	case cols.cluster < 0:
		return cols, fmt.Errorf("%w: cluster index", ErrMissingColumn)
	}
	return cols, nil
}

// ParseAnnotations reads a tab-separated GNPS cluster summary with a header
// row. Rows with non-numeric mass or retention time are skipped with a
// warning on w and counted in the summary. A header missing a required
// column, or a table whose data rows are all malformed, is a fatal error.
// A header-only table parses to an empty slice without error.
func ParseAnnotations(r io.Reader, w io.Writer) ([]types.Annotation, ParseSummary, error) {
	var summary ParseSummary

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, summary, fmt.Errorf("reading annotations header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, summary, err
	}

	var anns []types.Annotation
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "warning: line %d: %v: skipping row\n", line, err)
			summary.Skipped++
			continue
		}
		ann, err := parseRow(record, cols)
		if err != nil {
			fmt.Fprintf(w, "warning: line %d: %v: skipping row\n", line, err)
			summary.Skipped++
			continue
		}
		anns = append(anns, ann)
		summary.Parsed++
	}

	if summary.Parsed == 0 && summary.Skipped > 0 {
		return nil, summary, fmt.Errorf("%w: all %d data rows malformed", ErrNoRows, summary.Skipped)
	}
	return anns, summary, nil
}

func parseRow(record []string, cols annColumns) (types.Annotation, error) {
	var ann types.Annotation

	need := cols.cluster
	for _, c := range []int{cols.mz, cols.rt, cols.library} {
		if c > need {
			need = c
		}
	}
	if len(record) <= need {
		return ann, fmt.Errorf("row has %d columns, need %d", len(record), need+1)
	}

	mz, err := strconv.ParseFloat(strings.TrimSpace(record[cols.mz]), 64)
	if err != nil {
		return ann, fmt.Errorf("parent mass %q not numeric", record[cols.mz])
	}
	rt, err := strconv.ParseFloat(strings.TrimSpace(record[cols.rt]), 64)
	if err != nil {
		return ann, fmt.Errorf("RTMean %q not numeric", record[cols.rt])
	}

	ann.MZ = mz
	ann.RT = rt
	ann.ClusterID = strings.TrimSpace(record[cols.cluster])
	ann.Library = strings.TrimSpace(record[cols.library])
	if cols.link >= 0 && cols.link < len(record) {
		ann.Link = strings.TrimSpace(record[cols.link])
	}
	return ann, nil
}

// LoadAnnotationsFile opens and parses a cluster summary TSV from disk.
func LoadAnnotationsFile(path string, w io.Writer) ([]types.Annotation, ParseSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseSummary{}, fmt.Errorf("opening annotations file: %w", err)
	}
	defer f.Close()

	anns, summary, err := ParseAnnotations(f, w)
	if err != nil {
		return nil, summary, fmt.Errorf("parsing %s: %w", path, err)
	}
	return anns, summary, nil
}
