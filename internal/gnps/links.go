// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gnps

import (
	"net/url"
	"strings"

	"github.com/pdiddy/gnpslink/pkg/types"
)

// DefaultBaseURL is the public ProteoSAFe server.
const DefaultBaseURL = "https://gnps.ucsd.edu"

// ClusterLink builds the ProteoSAFe cluster-details URL for a cluster in a
// task. URL construction is the only web concern in this package; opening
// the page belongs to the host UI.
func ClusterLink(baseURL, taskID, clusterID string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	v := url.Values{}
	v.Set("task", taskID)
	v.Set("view", "cluster_details")
	v.Set("protein", clusterID)
	return strings.TrimRight(baseURL, "/") + "/ProteoSAFe/result.jsp?" + v.Encode()
}

// Link resolves the web link for an annotation, preferring the link column
// from the source table and falling back to a built cluster-details URL.
func Link(ann types.Annotation, baseURL, taskID string) string {
	if ann.Link != "" {
		return ann.Link
	}
	return ClusterLink(baseURL, taskID, ann.ClusterID)
}
