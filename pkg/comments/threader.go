package comments

import (
	"sort"

	"github.com/jordanlanch/leadflow/pkg/models"
)

// MaxReplyDepth is the deepest reply level the dashboard renders. The tree
// model itself permits arbitrary depth; the cap is enforced where replies are
// created, not where the tree is built.
const MaxReplyDepth = 3

// Thread is a two-level view over a flat comment collection: top-level
// comments plus each parent's direct replies.
type Thread struct {
	Roots            []models.Comment
	ChildrenByParent map[string][]models.Comment
}

// BuildThreads organizes a flat comment slice into a reply tree. Roots are
// sorted newest-first; each parent's children oldest-first. The function only
// organizes what exists: it imposes no depth cap and keeps soft-deleted
// parents in place so their replies stay attached.
func BuildThreads(comments []models.Comment) Thread {
	t := Thread{
		ChildrenByParent: make(map[string][]models.Comment),
	}

	for _, c := range comments {
		if c.ParentID == "" {
			t.Roots = append(t.Roots, c)
			continue
		}
		t.ChildrenByParent[c.ParentID] = append(t.ChildrenByParent[c.ParentID], c)
	}

	sort.SliceStable(t.Roots, func(i, j int) bool {
		return t.Roots[i].CreatedAt.After(t.Roots[j].CreatedAt)
	})

	for parent, children := range t.ChildrenByParent {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].CreatedAt.Before(children[j].CreatedAt)
		})
		t.ChildrenByParent[parent] = children
	}

	return t
}

// Depth returns the nesting depth of a comment within its thread: 1 for a
// root, 2 for a reply to a root, and so on. Returns 0 when the id is not in
// the collection. A missing parent terminates the walk rather than erroring;
// partial loads should not panic the board.
func Depth(comments []models.Comment, id string) int {
	byID := make(map[string]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	depth := 0
	current, ok := byID[id]
	if !ok {
		return 0
	}
	for {
		depth++
		if current.ParentID == "" {
			return depth
		}
		parent, ok := byID[current.ParentID]
		if !ok {
			return depth
		}
		// Bail out past any plausible depth; parent links are acyclic by
		// construction but a corrupted load must not spin forever.
		if depth > len(comments) {
			return depth
		}
		current = parent
	}
}

// Flatten returns the thread in render order: each root newest-first,
// followed by its replies depth-first, siblings oldest-first.
func (t Thread) Flatten() []models.Comment {
	out := make([]models.Comment, 0, len(t.Roots))
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, child := range t.ChildrenByParent[parentID] {
			out = append(out, child)
			walk(child.ID)
		}
	}
	for _, root := range t.Roots {
		out = append(out, root)
		walk(root.ID)
	}
	return out
}
