package services

import (
	"testing"

	"github.com/varsityrank/api/model"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildPostTree(t *testing.T) {
	t.Run("empty input yields empty forest", func(t *testing.T) {
		tree := BuildPostTree(nil)
		if len(tree) != 0 {
			t.Fatalf("expected empty tree, got %d roots", len(tree))
		}
	})

	t.Run("nests replies under parents", func(t *testing.T) {
		posts := []model.ForumPost{
			{ID: 1, Content: "root one"},
			{ID: 2, ParentID: uintPtr(1), Content: "reply to one"},
			{ID: 3, ParentID: uintPtr(1), Content: "second reply to one"},
			{ID: 4, ParentID: uintPtr(2), Content: "nested reply"},
		}

		tree := BuildPostTree(posts)
		if len(tree) != 1 {
			t.Fatalf("expected 1 root, got %d", len(tree))
		}
		root := tree[0]
		if root.ID != 1 {
			t.Fatalf("expected root id 1, got %d", root.ID)
		}
		if len(root.Replies) != 2 {
			t.Fatalf("expected 2 replies under root, got %d", len(root.Replies))
		}
		if root.Replies[0].ID != 2 || root.Replies[1].ID != 3 {
			t.Errorf("sibling order not preserved: got %d, %d", root.Replies[0].ID, root.Replies[1].ID)
		}
		if len(root.Replies[0].Replies) != 1 || root.Replies[0].Replies[0].ID != 4 {
			t.Errorf("expected post 4 nested under post 2")
		}
		if len(root.Replies[1].Replies) != 0 {
			t.Errorf("expected post 3 to be a leaf")
		}
	})

	t.Run("multiple roots keep input order", func(t *testing.T) {
		posts := []model.ForumPost{
			{ID: 10},
			{ID: 11},
			{ID: 12, ParentID: uintPtr(11)},
		}
		tree := BuildPostTree(posts)
		if len(tree) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(tree))
		}
		if tree[0].ID != 10 || tree[1].ID != 11 {
			t.Errorf("root order not preserved: got %d, %d", tree[0].ID, tree[1].ID)
		}
	})

	t.Run("deep chains stay connected", func(t *testing.T) {
		posts := []model.ForumPost{
			{ID: 1},
			{ID: 2, ParentID: uintPtr(1)},
			{ID: 3, ParentID: uintPtr(2)},
			{ID: 4, ParentID: uintPtr(3)},
			{ID: 5, ParentID: uintPtr(4)},
		}
		tree := BuildPostTree(posts)
		depth := 0
		node := tree[0]
		for {
			depth++
			if len(node.Replies) == 0 {
				break
			}
			node = node.Replies[0]
		}
		if depth != 5 {
			t.Errorf("expected chain depth 5, got %d", depth)
		}
	})

	t.Run("replies default to empty slice not nil", func(t *testing.T) {
		tree := BuildPostTree([]model.ForumPost{{ID: 1}})
		if tree[0].Replies == nil {
			t.Error("expected empty replies slice, got nil")
		}
	})

	t.Run("resolves voter sets per direction", func(t *testing.T) {
		posts := []model.ForumPost{
			{ID: 1, Votes: []model.ForumPostVote{
				{PostID: 1, UserID: 7, Direction: model.VoteUp},
				{PostID: 1, UserID: 8, Direction: model.VoteUp},
				{PostID: 1, UserID: 9, Direction: model.VoteDown},
			}},
		}
		tree := BuildPostTree(posts)
		if len(tree[0].UpvotedBy) != 2 {
			t.Errorf("expected 2 upvoters, got %d", len(tree[0].UpvotedBy))
		}
		if len(tree[0].DownvotedBy) != 1 || tree[0].DownvotedBy[0] != 9 {
			t.Errorf("unexpected downvoters: %v", tree[0].DownvotedBy)
		}
	})
}

func TestVotersFor(t *testing.T) {
	post := model.ForumPost{Votes: []model.ForumPostVote{
		{UserID: 1, Direction: model.VoteUp},
		{UserID: 2, Direction: model.VoteDown},
		{UserID: 3, Direction: model.VoteUp},
	}}

	up := post.VotersFor(model.VoteUp)
	if len(up) != 2 || up[0] != 1 || up[1] != 3 {
		t.Errorf("unexpected upvoters: %v", up)
	}
	down := post.VotersFor(model.VoteDown)
	if len(down) != 1 || down[0] != 2 {
		t.Errorf("unexpected downvoters: %v", down)
	}
}
