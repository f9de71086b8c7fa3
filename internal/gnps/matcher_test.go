// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gnps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gnpslink/pkg/types"
)

func testAnnotations() []types.Annotation {
	return []types.Annotation{
		{ClusterID: "17", MZ: 305.07, RT: 110, Library: "glutamate"},
		{ClusterID: "23", MZ: 305.30, RT: 110, Library: "far off in mass"},
		{ClusterID: "31", MZ: 305.05, RT: 400, Library: "far off in rt"},
		{ClusterID: "42", MZ: 180.06, RT: 95, Library: "glucose"},
		{ClusterID: "57", MZ: 180.10, RT: 100, Library: ""},
	}
}

func loadedMatcher(t *testing.T, cfg types.MatcherConfig) *Matcher {
	t.Helper()
	m, err := NewMatcher(cfg)
	require.NoError(t, err)
	m.Load(testAnnotations())
	return m
}

func TestNewMatcher_ZeroUsesDefaults(t *testing.T) {
	m, err := NewMatcher(types.MatcherConfig{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultMzTolerance, m.Config().MzTolerance)
	assert.Equal(t, types.DefaultRTTolerance, m.Config().RTTolerance)
}

func TestNewMatcher_RejectsInvalidTolerances(t *testing.T) {
	cases := []types.MatcherConfig{
		{MzTolerance: -0.1, RTTolerance: 30},
		{MzTolerance: 0.1, RTTolerance: -1},
		{MzTolerance: math.NaN(), RTTolerance: 30},
	}
	for _, cfg := range cases {
		_, err := NewMatcher(cfg)
		assert.Error(t, err)
	}
}

func TestFindMatches_GlutamateExample(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})

	matches := m.FindMatches(types.Feature{ID: "f1", MZ: 305.05, RT: 120})
	require.Len(t, matches, 1)
	assert.Equal(t, "glutamate", matches[0].Annotation.Library)
	assert.InDelta(t, -0.02, matches[0].DeltaMZ, 1e-9)
	assert.InDelta(t, 10.0, matches[0].DeltaRT, 1e-9)
}

func TestFindMatches_RespectsWindows(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})

	features := []types.Feature{
		{ID: "a", MZ: 305.05, RT: 120},
		{ID: "b", MZ: 180.08, RT: 97},
		{ID: "c", MZ: 500.00, RT: 100},
	}
	for _, f := range features {
		for _, match := range m.FindMatches(f) {
			assert.LessOrEqual(t, math.Abs(match.DeltaMZ), 0.1, "feature %s", f.ID)
			assert.LessOrEqual(t, math.Abs(match.DeltaRT), 30.0, "feature %s", f.ID)
		}
	}
}

func TestFindMatches_NoAnnotationInWindow(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})

	assert.Empty(t, m.FindMatches(types.Feature{ID: "f", MZ: 999, RT: 10}))
	// In mass range but outside the rt window.
	assert.Empty(t, m.FindMatches(types.Feature{ID: "g", MZ: 305.05, RT: 200}))
}

func TestFindMatches_SortedByMassDifference(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.5, RTTolerance: 30})

	matches := m.FindMatches(types.Feature{ID: "f", MZ: 305.10, RT: 115})
	require.Len(t, matches, 2)
	assert.Equal(t, "17", matches[0].Annotation.ClusterID)
	assert.Equal(t, "23", matches[1].Annotation.ClusterID)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t,
			math.Abs(matches[i-1].DeltaMZ), math.Abs(matches[i].DeltaMZ))
	}
}

func TestFindMatches_TieBreakOnRT(t *testing.T) {
	m, err := NewMatcher(types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})
	require.NoError(t, err)
	m.Load([]types.Annotation{
		{ClusterID: "b", MZ: 200.00, RT: 130, Library: "farther"},
		{ClusterID: "a", MZ: 200.00, RT: 110, Library: "closer"},
	})

	matches := m.FindMatches(types.Feature{ID: "f", MZ: 200.00, RT: 100})
	require.Len(t, matches, 2)
	assert.Equal(t, "closer", matches[0].Annotation.Library)
	assert.Equal(t, "farther", matches[1].Annotation.Library)
}

func TestFindMatches_EmptyTable(t *testing.T) {
	m, err := NewMatcher(types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})
	require.NoError(t, err)
	m.Load(nil)

	assert.Empty(t, m.FindMatches(types.Feature{ID: "f", MZ: 305.05, RT: 120}))
	assert.Equal(t, 0, m.Len())
}

func TestFindMatches_MonotoneInTolerance(t *testing.T) {
	feature := types.Feature{ID: "f", MZ: 305.05, RT: 120}

	narrow := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})
	wide := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.5, RTTolerance: 300})

	narrowMatches := narrow.FindMatches(feature)
	wideMatches := wide.FindMatches(feature)
	assert.GreaterOrEqual(t, len(wideMatches), len(narrowMatches))

	// Every narrow match is still present in the wide set.
	wideIDs := make(map[string]bool)
	for _, match := range wideMatches {
		wideIDs[match.Annotation.ClusterID] = true
	}
	for _, match := range narrowMatches {
		assert.True(t, wideIDs[match.Annotation.ClusterID])
	}
}

func TestAnnotateTable(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})

	annotated := m.AnnotateTable([]types.Feature{
		{ID: "f1", MZ: 305.05, RT: 120},
		{ID: "f2", MZ: 999.00, RT: 10},
	})
	require.Len(t, annotated, 2)

	assert.Equal(t, "glutamate", annotated[0].Label)
	assert.Equal(t, "17", annotated[0].ClusterID)
	assert.Equal(t, NoMatchLabel, annotated[1].Label)
	assert.Empty(t, annotated[1].ClusterID)
}

func TestAnnotateTable_EmptyAnnotations(t *testing.T) {
	m, err := NewMatcher(types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})
	require.NoError(t, err)
	m.Load(nil)

	annotated := m.AnnotateTable([]types.Feature{{ID: "f1", MZ: 305.05, RT: 120}})
	require.Len(t, annotated, 1)
	assert.Equal(t, NoMatchLabel, annotated[0].Label)
}

func TestLookupID(t *testing.T) {
	m := loadedMatcher(t, types.MatcherConfig{MzTolerance: 0.1, RTTolerance: 30})

	ann, ok := m.LookupID("42")
	require.True(t, ok)
	assert.Equal(t, "glucose", ann.Library)

	_, ok = m.LookupID("no-such-cluster")
	assert.False(t, ok)
}
