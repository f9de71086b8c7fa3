// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gnps matches MS1 features against GNPS annotation records.
// A Matcher holds one annotation table, indexed by m/z, and answers
// tolerance-window queries: a feature and an annotation match when both
// |Δmz| and |Δrt| fall inside the configured windows.
package gnps

import (
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/gnpslink/pkg/types"
)

// NoMatchLabel is the sentinel label for features with no annotation in
// the windows.
const NoMatchLabel = "no match"

// Matcher answers tolerance-window queries against one annotation table.
// Query methods are read-only; a loaded Matcher is safe for concurrent use.
type Matcher struct {
	cfg  types.MatcherConfig
	anns []types.Annotation // sorted by ascending m/z
	byID map[string]int     // cluster id -> index into anns
}

// NewMatcher validates the tolerance windows and returns an empty matcher.
// Zero tolerances take the package defaults; negative or NaN tolerances are
// a configuration error.
func NewMatcher(cfg types.MatcherConfig) (*Matcher, error) {
	if cfg.MzTolerance == 0 {
		cfg.MzTolerance = types.DefaultMzTolerance
	}
	if cfg.RTTolerance == 0 {
		cfg.RTTolerance = types.DefaultRTTolerance
	}
	if cfg.MzTolerance < 0 || math.IsNaN(cfg.MzTolerance) {
		return nil, fmt.Errorf("invalid mz tolerance %v", cfg.MzTolerance)
	}
	if cfg.RTTolerance < 0 || math.IsNaN(cfg.RTTolerance) {
		return nil, fmt.Errorf("invalid rt tolerance %v", cfg.RTTolerance)
	}
	return &Matcher{cfg: cfg, byID: map[string]int{}}, nil
}

// Config returns the tolerance windows the matcher was built with.
func (m *Matcher) Config() types.MatcherConfig {
	return m.cfg
}

// Load replaces the matcher's annotation table. The input slice is copied
// and sorted by m/z so FindMatches can binary-search the window.
func (m *Matcher) Load(anns []types.Annotation) {
	m.anns = make([]types.Annotation, len(anns))
	copy(m.anns, anns)
	sort.Slice(m.anns, func(i, j int) bool { return m.anns[i].MZ < m.anns[j].MZ })

	m.byID = make(map[string]int, len(m.anns))
	for i, a := range m.anns {
		m.byID[a.ClusterID] = i
	}
}

// Len returns the number of loaded annotations.
func (m *Matcher) Len() int {
	return len(m.anns)
}

// FindMatches returns the annotations within the tolerance windows of the
// feature, ordered by ascending |Δmz|, then ascending |Δrt|, then cluster
// id. An empty table or an empty window yields an empty slice, not an error.
func (m *Matcher) FindMatches(f types.Feature) []types.Match {
	lo := f.MZ - m.cfg.MzTolerance
	hi := f.MZ + m.cfg.MzTolerance
	i1 := sort.Search(len(m.anns), func(i int) bool { return m.anns[i].MZ >= lo })
	i2 := sort.Search(len(m.anns), func(i int) bool { return m.anns[i].MZ > hi })

	var matches []types.Match
	for i := i1; i < i2; i++ {
		dRT := f.RT - m.anns[i].RT
		if math.Abs(dRT) > m.cfg.RTTolerance {
			continue
		}
		matches = append(matches, types.Match{
			Feature:    f,
			Annotation: m.anns[i],
			DeltaMZ:    f.MZ - m.anns[i].MZ,
			DeltaRT:    dRT,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		di, dj := math.Abs(matches[i].DeltaMZ), math.Abs(matches[j].DeltaMZ)
		if di != dj {
			return di < dj
		}
		ri, rj := math.Abs(matches[i].DeltaRT), math.Abs(matches[j].DeltaRT)
		if ri != rj {
			return ri < rj
		}
		return matches[i].Annotation.ClusterID < matches[j].Annotation.ClusterID
	})
	return matches
}

// BestMatch returns the closest matching annotation for the feature, or
// false when nothing falls inside the windows.
func (m *Matcher) BestMatch(f types.Feature) (types.Match, bool) {
	matches := m.FindMatches(f)
	if len(matches) == 0 {
		return types.Match{}, false
	}
	return matches[0], true
}

// AnnotateTable attaches the best match's library label to each feature,
// or NoMatchLabel when the feature has no annotation in the windows. This
// is the label set a display layer consumes.
func (m *Matcher) AnnotateTable(features []types.Feature) []types.AnnotatedFeature {
	out := make([]types.AnnotatedFeature, 0, len(features))
	for _, f := range features {
		af := types.AnnotatedFeature{Feature: f, Label: NoMatchLabel}
		if best, ok := m.BestMatch(f); ok {
			af.Label = best.Annotation.Library
			af.ClusterID = best.Annotation.ClusterID
		}
		out = append(out, af)
	}
	return out
}

// LookupID returns the annotation with the given cluster id, used by the
// host UI to resolve a web link on interaction.
func (m *Matcher) LookupID(clusterID string) (types.Annotation, bool) {
	i, ok := m.byID[clusterID]
	if !ok {
		return types.Annotation{}, false
	}
	return m.anns[i], true
}
