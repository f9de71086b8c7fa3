// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gnps

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pdiddy/gnpslink/pkg/types"
)

const sampleSummary = "cluster index\tparent mass\tRTMean\tLibraryID\tProteoSAFeClusterLink\n" +
	"17\t305.07\t110.0\tglutamate\thttps://gnps.ucsd.edu/ProteoSAFe/result.jsp?task=abc&view=cluster_details&protein=17\n" +
	"42\t180.06\t95.5\tglucose\t\n"

func TestParseAnnotations(t *testing.T) {
	anns, summary, err := ParseAnnotations(strings.NewReader(sampleSummary), io.Discard)
	if err != nil {
		t.Fatalf("ParseAnnotations: %v", err)
	}
	if summary.Parsed != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 2 parsed, 0 skipped", summary)
	}

	want := []types.Annotation{
		{
			ClusterID: "17", MZ: 305.07, RT: 110.0, Library: "glutamate",
			Link: "https://gnps.ucsd.edu/ProteoSAFe/result.jsp?task=abc&view=cluster_details&protein=17",
		},
		{ClusterID: "42", MZ: 180.06, RT: 95.5, Library: "glucose"},
	}
	if diff := cmp.Diff(want, anns); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnnotations_HeaderAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"canonical", "cluster index\tparent mass\tRTMean\tLibraryID"},
		{"underscores", "cluster_index\tparent_mass\trt_mean\tlibrary_id"},
		{"case", "Cluster Index\tParent Mass\tRTMEAN\tLibraryID"},
		{"short", "clusterid\tmz\trt\tlibrary"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.header + "\n7\t100.5\t60\tcaffeine\n"
			anns, _, err := ParseAnnotations(strings.NewReader(in), io.Discard)
			if err != nil {
				t.Fatalf("ParseAnnotations: %v", err)
			}
			if len(anns) != 1 || anns[0].Library != "caffeine" || anns[0].MZ != 100.5 {
				t.Errorf("got %+v", anns)
			}
		})
	}
}

func TestParseAnnotations_SkipsMalformedRows(t *testing.T) {
	in := "cluster index\tparent mass\tRTMean\tLibraryID\n" +
		"1\tnot-a-number\t110\tbroken\n" +
		"2\t305.07\toops\tbroken too\n" +
		"3\t305.07\t110\tglutamate\n" +
		"4\t200.0\n"

	var warnings strings.Builder
	anns, summary, err := ParseAnnotations(strings.NewReader(in), &warnings)
	if err != nil {
		t.Fatalf("ParseAnnotations: %v", err)
	}
	if summary.Parsed != 1 || summary.Skipped != 3 {
		t.Fatalf("summary = %+v, want 1 parsed, 3 skipped", summary)
	}
	if len(anns) != 1 || anns[0].ClusterID != "3" {
		t.Fatalf("got %+v", anns)
	}
	if !strings.Contains(warnings.String(), "line 2") {
		t.Errorf("expected a warning for line 2, got %q", warnings.String())
	}
}

func TestParseAnnotations_MissingColumnFatal(t *testing.T) {
	in := "cluster index\tRTMean\tLibraryID\n1\t110\tglutamate\n"
	_, _, err := ParseAnnotations(strings.NewReader(in), io.Discard)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestParseAnnotations_AllRowsMalformedFatal(t *testing.T) {
	in := "cluster index\tparent mass\tRTMean\tLibraryID\n" +
		"1\tx\t110\ta\n" +
		"2\ty\t120\tb\n"
	_, _, err := ParseAnnotations(strings.NewReader(in), io.Discard)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
}

func TestParseAnnotations_HeaderOnly(t *testing.T) {
	in := "cluster index\tparent mass\tRTMean\tLibraryID\n"
	anns, summary, err := ParseAnnotations(strings.NewReader(in), io.Discard)
	if err != nil {
		t.Fatalf("ParseAnnotations: %v", err)
	}
	if len(anns) != 0 || summary.Parsed != 0 {
		t.Errorf("got %+v, %+v; want empty table", anns, summary)
	}
}

func TestParseAnnotations_EmptyInput(t *testing.T) {
	_, _, err := ParseAnnotations(strings.NewReader(""), io.Discard)
	if err == nil {
		t.Fatal("expected an error for an empty file")
	}
}
