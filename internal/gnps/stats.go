// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gnps

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/gnpslink/pkg/types"
)

// MatchStats summarizes a match run over a feature table. Mass errors are
// in parts per million of the annotation mass; retention-time errors are
// in the table's rt units. Only each feature's best match contributes.
type MatchStats struct {
	Features  int `json:"features" yaml:"features"`
	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`

	MeanPPM   float64 `json:"mean_ppm" yaml:"mean_ppm"`
	StdDevPPM float64 `json:"stddev_ppm" yaml:"stddev_ppm"`
	MedianPPM float64 `json:"median_ppm" yaml:"median_ppm"`

	MeanDeltaRT   float64 `json:"mean_delta_rt" yaml:"mean_delta_rt"`
	MedianDeltaRT float64 `json:"median_delta_rt" yaml:"median_delta_rt"`
}

// Stats computes the best-match error distribution for a feature table.
func (m *Matcher) Stats(features []types.Feature) MatchStats {
	s := MatchStats{Features: len(features)}

	var ppm, drt []float64
	for _, f := range features {
		best, ok := m.BestMatch(f)
		if !ok {
			s.Unmatched++
			continue
		}
		s.Matched++
		ppm = append(ppm, best.DeltaMZ/best.Annotation.MZ*1e6)
		drt = append(drt, best.DeltaRT)
	}

	if len(ppm) == 0 {
		return s
	}

	s.MeanPPM = stat.Mean(ppm, nil)
	s.MeanDeltaRT = stat.Mean(drt, nil)
	if len(ppm) > 1 {
		s.StdDevPPM = stat.StdDev(ppm, nil)
	}

	sort.Float64s(ppm)
	sort.Float64s(drt)
	s.MedianPPM = stat.Quantile(0.5, stat.Empirical, ppm, nil)
	s.MedianDeltaRT = stat.Quantile(0.5, stat.Empirical, drt, nil)
	return s
}
