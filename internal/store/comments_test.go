package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestCommentStoreUnseenKeyDefaults(t *testing.T) {
	s := NewCommentStore()
	require.Nil(t, s.Comments(42))
	require.False(t, s.HasComments(42))
	require.False(t, s.Loading(42))
	require.Empty(t, s.Error(42))
}

func TestAddCommentInitializesList(t *testing.T) {
	s := NewCommentStore()
	s.AddComment(1, models.Comment{ID: 10, TaskID: 1, Content: "first"})

	require.Len(t, s.Comments(1), 1)
	require.True(t, s.HasComments(1))
}

func TestRemoveComment(t *testing.T) {
	s := NewCommentStore()
	s.SetComments(1, []models.Comment{
		{ID: 10, TaskID: 1, Content: "keep"},
		{ID: 11, TaskID: 1, Content: "drop"},
	})

	s.RemoveComment(1, 11)
	got := s.Comments(1)
	require.Len(t, got, 1)
	require.Equal(t, int64(10), got[0].ID)
}

func TestRemoveCommentLeavesPriorSnapshotIntact(t *testing.T) {
	s := NewCommentStore()
	s.SetComments(1, []models.Comment{
		{ID: 10, TaskID: 1, Content: "first"},
		{ID: 11, TaskID: 1, Content: "second"},
	})

	snapshot := s.Comments(1)
	s.RemoveComment(1, 10)

	require.Len(t, snapshot, 2)
	require.Equal(t, int64(10), snapshot[0].ID)
	require.Equal(t, "first", snapshot[0].Content)
	require.Len(t, s.Comments(1), 1)
	require.Equal(t, int64(11), s.Comments(1)[0].ID)
}

func TestRemoveCommentAbsentIDLeavesLength(t *testing.T) {
	s := NewCommentStore()
	s.SetComments(1, []models.Comment{{ID: 10, TaskID: 1}})

	s.RemoveComment(1, 999)
	require.Len(t, s.Comments(1), 1)

	// Unknown task key is also a no-op
	s.RemoveComment(2, 10)
	require.False(t, s.HasComments(2))
}

func TestPerTaskFlagsAreIndependent(t *testing.T) {
	s := NewCommentStore()
	s.SetLoading(1, true)
	s.SetError(2, "fetch failed")

	require.True(t, s.Loading(1))
	require.False(t, s.Loading(2))
	require.Empty(t, s.Error(1))
	require.Equal(t, "fetch failed", s.Error(2))
}

func TestClearComments(t *testing.T) {
	s := NewCommentStore()
	s.SetComments(1, []models.Comment{{ID: 10, TaskID: 1}})
	s.SetLoading(1, true)
	s.SetError(1, "boom")

	s.ClearComments(1)
	require.False(t, s.HasComments(1))
	require.Nil(t, s.Comments(1))
	require.False(t, s.Loading(1))
	require.Empty(t, s.Error(1))
}

func TestSetCommentsEmptyDiffersFromClear(t *testing.T) {
	s := NewCommentStore()
	s.SetComments(1, []models.Comment{})

	// An empty cached list still counts as loaded; the fetch guard
	// must not refetch it.
	require.True(t, s.HasComments(1))
	require.Empty(t, s.Comments(1))
}
