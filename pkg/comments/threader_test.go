package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadflow/pkg/models"
)

func comment(id, parentID string, minute int) models.Comment {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Comment{
		ID:        id,
		LeadID:    "lead-1",
		UserID:    "user-1",
		Content:   "note " + id,
		ParentID:  parentID,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

func commentIDs(comments []models.Comment) []string {
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}

func TestBuildThreads_RootsNewestFirst(t *testing.T) {
	thread := BuildThreads([]models.Comment{
		comment("old", "", 0),
		comment("new", "", 20),
		comment("mid", "", 10),
	})

	assert.Equal(t, []string{"new", "mid", "old"}, commentIDs(thread.Roots))
}

func TestBuildThreads_RepliesOldestFirst(t *testing.T) {
	thread := BuildThreads([]models.Comment{
		comment("root", "", 0),
		comment("r2", "root", 10),
		comment("r1", "root", 5),
		comment("r3", "root", 15),
	})

	require.Len(t, thread.Roots, 1)
	assert.Equal(t, []string{"r1", "r2", "r3"}, commentIDs(thread.ChildrenByParent["root"]))
}

func TestBuildThreads_KeepsSoftDeletedParents(t *testing.T) {
	root := comment("root", "", 0)
	root.Deleted = true
	root.Content = models.DeletedCommentContent

	thread := BuildThreads([]models.Comment{root, comment("reply", "root", 5)})

	require.Len(t, thread.Roots, 1)
	assert.True(t, thread.Roots[0].Deleted)
	assert.Len(t, thread.ChildrenByParent["root"], 1)
}

func TestBuildThreads_Empty(t *testing.T) {
	thread := BuildThreads(nil)

	assert.Empty(t, thread.Roots)
	assert.NotNil(t, thread.ChildrenByParent)
}

func TestDepth(t *testing.T) {
	all := []models.Comment{
		comment("root", "", 0),
		comment("reply", "root", 5),
		comment("nested", "reply", 10),
	}

	assert.Equal(t, 1, Depth(all, "root"))
	assert.Equal(t, 2, Depth(all, "reply"))
	assert.Equal(t, 3, Depth(all, "nested"))
	assert.Equal(t, 0, Depth(all, "missing"))
}

func TestDepth_OrphanTerminatesWalk(t *testing.T) {
	all := []models.Comment{comment("orphan", "gone", 0)}

	assert.Equal(t, 1, Depth(all, "orphan"))
}

func TestDepth_CorruptedCycleDoesNotSpin(t *testing.T) {
	a := comment("a", "b", 0)
	b := comment("b", "a", 1)

	depth := Depth([]models.Comment{a, b}, "a")
	assert.Greater(t, depth, 0)
}

func TestFlatten_RenderOrder(t *testing.T) {
	thread := BuildThreads([]models.Comment{
		comment("old-root", "", 0),
		comment("new-root", "", 30),
		comment("reply-b", "old-root", 10),
		comment("reply-a", "old-root", 5),
	})

	assert.Equal(t, []string{"new-root", "old-root", "reply-a", "reply-b"}, commentIDs(thread.Flatten()))
}

func TestFlatten_KeepsNestedReplies(t *testing.T) {
	thread := BuildThreads([]models.Comment{
		comment("root", "", 0),
		comment("reply", "root", 5),
		comment("nested", "reply", 10),
	})

	assert.Equal(t, []string{"root", "reply", "nested"}, commentIDs(thread.Flatten()))
}
