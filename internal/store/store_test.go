// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gnpslink/pkg/types"
)

const testTaskID = "0123456789abcdef0123456789abcdef"

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CacheConfig{CacheDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTable() types.AnnotationTable {
	return types.AnnotationTable{
		TaskID:    testTaskID,
		SourceURL: "https://gnps.ucsd.edu/ProteoSAFe/DownloadResultFile?task=" + testTaskID,
		FetchedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Annotations: []types.Annotation{
			{ClusterID: "17", MZ: 305.07, RT: 110, Library: "glutamate"},
			{ClusterID: "42", MZ: 180.06, RT: 95, Library: "glucose", Link: "https://example.org/42"},
		},
	}
}

func TestPutAndAnnotations(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testTable()))

	table, err := s.Annotations(ctx, testTaskID)
	require.NoError(t, err)
	assert.Equal(t, testTaskID, table.TaskID)
	assert.True(t, table.FetchedAt.Equal(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))
	require.Len(t, table.Annotations, 2)

	// Ordered by m/z.
	assert.Equal(t, "42", table.Annotations[0].ClusterID)
	assert.Equal(t, "17", table.Annotations[1].ClusterID)
	assert.Equal(t, "https://example.org/42", table.Annotations[0].Link)
}

func TestAnnotations_CacheMiss(t *testing.T) {
	s := testStore(t)
	_, err := s.Annotations(context.Background(), testTaskID)
	assert.ErrorIs(t, err, ErrTaskNotCached)
}

func TestHas(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cached, err := s.Has(ctx, testTaskID)
	require.NoError(t, err)
	assert.False(t, cached)

	require.NoError(t, s.Put(ctx, testTable()))

	cached, err = s.Has(ctx, testTaskID)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestPut_ReplacesOldRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testTable()))

	updated := testTable()
	updated.Annotations = updated.Annotations[:1]
	require.NoError(t, s.Put(ctx, updated))

	table, err := s.Annotations(ctx, testTaskID)
	require.NoError(t, err)
	assert.Len(t, table.Annotations, 1)
}

func TestWindow(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testTable()))

	anns, err := s.Window(ctx, testTaskID, 304.97, 305.17, 80, 140)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "17", anns[0].ClusterID)

	anns, err = s.Window(ctx, testTaskID, 304.97, 305.17, 200, 300)
	require.NoError(t, err)
	assert.Empty(t, anns)
}

func TestTasksAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testTable()))

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, testTaskID, tasks[0].TaskID)
	assert.Equal(t, 2, tasks[0].Rows)

	require.NoError(t, s.Delete(ctx, testTaskID))

	tasks, err = s.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.Annotations(ctx, testTaskID)
	assert.ErrorIs(t, err, ErrTaskNotCached)
}
