// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Feature is one row of an MS1 feature table: a measured mass, a retention
// time, and the identifier the host table keys the feature by. Features are
// immutable once loaded.
type Feature struct {
	// ID is the feature identifier from the source table. When the table
	// has no id column, the parser uses the first column.
	ID string `json:"id" yaml:"id"`

	// MZ is the measured m/z of the feature.
	MZ float64 `json:"mz" yaml:"mz"`

	// RT is the measured retention time of the feature, in seconds.
	RT float64 `json:"rt" yaml:"rt"`
}

// AnnotatedFeature pairs a feature with its best-match label, the form the
// display layer consumes.
type AnnotatedFeature struct {
	Feature Feature `json:"feature" yaml:"feature"`

	// Label is the LibraryID of the closest matching annotation, or the
	// no-match sentinel when nothing falls inside the windows.
	Label string `json:"label" yaml:"label"`

	// ClusterID is the matched cluster, empty for no-match rows.
	ClusterID string `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`
}
