// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for gnpslink: MS1 features,
// GNPS annotation records, tolerance-window matches, and stage configuration.
package types

import "time"

// Annotation is one record from a GNPS cluster summary table. Records are
// immutable once loaded.
type Annotation struct {
	// ClusterID is the GNPS cluster index, unique within a task.
	ClusterID string `json:"cluster_id" yaml:"cluster_id"`

	// MZ is the parent (precursor) mass of the cluster.
	MZ float64 `json:"mz" yaml:"mz"`

	// RT is the mean retention time of the cluster, in seconds.
	RT float64 `json:"rt" yaml:"rt"`

	// Library is the spectral library identification (LibraryID column).
	// Empty when the cluster has no library hit.
	Library string `json:"library" yaml:"library"`

	// Link is the ProteoSAFe cluster-details URL, when the source table
	// carries one. Empty otherwise; see gnps.ClusterLink for rebuilding it.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

// AnnotationTable groups the annotations fetched for one GNPS task.
type AnnotationTable struct {
	// TaskID is the 32-character hexadecimal GNPS task identifier.
	TaskID string `json:"task_id" yaml:"task_id"`

	// SourceURL records where the table was downloaded from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// FetchedAt is when the table was downloaded.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// Annotations holds the parsed records.
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// Match pairs a feature with an annotation that falls inside the matcher's
// m/z and retention-time windows. Matches are derived per query and never
// persisted.
type Match struct {
	Feature    Feature    `json:"feature" yaml:"feature"`
	Annotation Annotation `json:"annotation" yaml:"annotation"`

	// DeltaMZ is feature m/z minus annotation m/z (signed).
	DeltaMZ float64 `json:"delta_mz" yaml:"delta_mz"`

	// DeltaRT is feature retention time minus annotation retention time (signed).
	DeltaRT float64 `json:"delta_rt" yaml:"delta_rt"`
}
