package model

import (
	"time"
)

// Vote directions
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// ForumPost is a post or nested reply inside a thread. ParentID nil marks a
// top-level post. The vote counters always equal the cardinality of the
// corresponding voter sets in ForumPostVote.
type ForumPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`

	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`

	// Relationships
	Author *User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Votes  []ForumPostVote `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// VotersFor returns the ids of voters who cast the given direction.
// Votes must be preloaded.
func (p *ForumPost) VotersFor(direction string) []uint {
	ids := make([]uint, 0, len(p.Votes))
	for i := range p.Votes {
		if p.Votes[i].Direction == direction {
			ids = append(ids, p.Votes[i].UserID)
		}
	}
	return ids
}

// ForumPostVote records one voter's current vote on one post. The unique index
// on (post_id, user_id) guarantees a voter holds at most one of upvote or
// downvote per post.
type ForumPostVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_voter" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_voter" json:"user_id"`
	Direction string    `gorm:"type:varchar(10);not null" json:"direction"`
}
