package services

import (
	"errors"

	"github.com/varsityrank/api/model"
	"gorm.io/gorm"
)

var (
	ErrAlreadyVoted   = errors.New("user has already cast this vote on the post")
	ErrInvalidVote    = errors.New("vote must be 'upvote' or 'downvote'")
	ErrThreadNotFound = errors.New("thread not found")
	ErrPostNotFound   = errors.New("post not found")
)

// PostNode is a forum post with its nested replies and voter sets resolved,
// as returned to clients.
type PostNode struct {
	model.ForumPost
	Author      *model.User `json:"author,omitempty"`
	UpvotedBy   []uint      `json:"upvoted_by"`
	DownvotedBy []uint      `json:"downvoted_by"`
	Replies     []*PostNode `json:"replies"`
}

// BuildPostTree nests a flat set of posts into a reply tree. Posts must be
// ordered by creation time ascending; sibling order follows input order and
// the result is a pure function of the input set. Grouping goes through a
// single parent-id index so deep nesting stays linear in the number of posts.
func BuildPostTree(posts []model.ForumPost) []*PostNode {
	nodes := make([]*PostNode, len(posts))
	children := make(map[uint][]*PostNode, len(posts))
	roots := make([]*PostNode, 0)

	for i := range posts {
		node := &PostNode{
			ForumPost:   posts[i],
			Author:      posts[i].Author,
			UpvotedBy:   posts[i].VotersFor(model.VoteUp),
			DownvotedBy: posts[i].VotersFor(model.VoteDown),
			Replies:     []*PostNode{},
		}
		nodes[i] = node
		if posts[i].ParentID == nil {
			roots = append(roots, node)
		} else {
			children[*posts[i].ParentID] = append(children[*posts[i].ParentID], node)
		}
	}

	for _, node := range nodes {
		if replies, ok := children[node.ID]; ok {
			node.Replies = replies
		}
	}

	return roots
}

// ForumService handles thread post trees and vote bookkeeping.
type ForumService struct {
	db *gorm.DB
}

// NewForumService creates a new forum service
func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{db: db}
}

// PostTreeForThread loads a thread's posts ordered by creation time and nests
// them into a reply tree.
func (s *ForumService) PostTreeForThread(threadID uint) ([]*PostNode, error) {
	var posts []model.ForumPost
	if err := s.db.Where("thread_id = ?", threadID).
		Preload("Votes").
		Preload("Author").
		Order("created_at ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return BuildPostTree(posts), nil
}

// Vote applies a voter's up or down vote to a post. A voter holds at most one
// vote per post: repeating the held vote fails with ErrAlreadyVoted, casting
// the opposite vote removes the held one and applies the new one in the same
// transaction. The counters are recounted from the vote rows so they always
// equal the cardinality of the voter sets.
func (s *ForumService) Vote(postID, voterID uint, direction string) (*model.ForumPost, error) {
	if direction != model.VoteUp && direction != model.VoteDown {
		return nil, ErrInvalidVote
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post model.ForumPost
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		var existing model.ForumPostVote
		err := tx.Where("post_id = ? AND user_id = ?", postID, voterID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Direction == direction {
				return ErrAlreadyVoted
			}
			// Switch the held vote to the opposite direction
			if err := tx.Model(&existing).Update("direction", direction).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := model.ForumPostVote{PostID: postID, UserID: voterID, Direction: direction}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recountVotes(tx, postID)
	})
	if err != nil {
		return nil, err
	}

	var post model.ForumPost
	if err := s.db.Preload("Votes").First(&post, postID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// recountVotes syncs the post's counters with the vote rows inside the
// caller's transaction.
func recountVotes(tx *gorm.DB, postID uint) error {
	var up, down int64
	if err := tx.Model(&model.ForumPostVote{}).
		Where("post_id = ? AND direction = ?", postID, model.VoteUp).
		Count(&up).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.ForumPostVote{}).
		Where("post_id = ? AND direction = ?", postID, model.VoteDown).
		Count(&down).Error; err != nil {
		return err
	}
	return tx.Model(&model.ForumPost{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"upvotes":   up,
		"downvotes": down,
	}).Error
}
