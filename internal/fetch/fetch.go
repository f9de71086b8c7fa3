// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads GNPS task results from a ProteoSAFe server.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/gnpslink/internal/gnps"
	"github.com/pdiddy/gnpslink/internal/httputil"
	"github.com/pdiddy/gnpslink/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "gnpslink/0.1"
	defaultResultView = "cluster_summary"
)

// ErrBadTaskID reports a malformed GNPS task identifier.
var ErrBadTaskID = errors.New("invalid GNPS task id")

// GNPS task ids are 32 hexadecimal characters.
var taskIDRe = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// ValidateTaskID checks the task identifier format before any request is made.
func ValidateTaskID(taskID string) error {
	if !taskIDRe.MatchString(taskID) {
		return fmt.Errorf("%w: %q", ErrBadTaskID, taskID)
	}
	return nil
}

// Client downloads and parses cluster summary tables for GNPS tasks.
type Client struct {
	cfg  types.FetchConfig
	http *http.Client
}

// NewClient builds a fetch client, filling zero config fields with defaults.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = gnps.DefaultBaseURL
	}
	if cfg.ResultView == "" {
		cfg.ResultView = defaultResultView
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// ResultURL builds the DownloadResultFile URL for a task's cluster summary.
func (c *Client) ResultURL(taskID string) string {
	v := url.Values{}
	v.Set("task", taskID)
	v.Set("block", "main")
	v.Set("file", c.cfg.ResultView+"/")
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/ProteoSAFe/DownloadResultFile?" + v.Encode()
}

// FetchTask downloads the cluster summary for a task and parses it. Row
// warnings go to w. The returned table carries the task id, source URL,
// and fetch time for the cache.
func (c *Client) FetchTask(ctx context.Context, taskID string, w io.Writer) (types.AnnotationTable, error) {
	var table types.AnnotationTable

	if err := ValidateTaskID(taskID); err != nil {
		return table, err
	}

	sourceURL := c.ResultURL(taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return table, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return table, fmt.Errorf("downloading task %s: %w", taskID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return table, fmt.Errorf("downloading task %s: server returned %s", taskID, resp.Status)
	}

	anns, summary, err := gnps.ParseAnnotations(resp.Body, w)
	if err != nil {
		return table, fmt.Errorf("task %s: %w", taskID, err)
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(w, "task %s: skipped %d malformed row(s)\n", taskID, summary.Skipped)
	}

	table = types.AnnotationTable{
		TaskID:      taskID,
		SourceURL:   sourceURL,
		FetchedAt:   time.Now().UTC(),
		Annotations: anns,
	}
	return table, nil
}
