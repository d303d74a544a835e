package services

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/varsityrank/api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the Postgres instance named by the DB_* environment
// variables and migrates the forum tables.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		getEnvOrDefault("DB_SSL_MODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.University{},
		&model.Branch{},
		&model.ForumThread{},
		&model.ForumPost{},
		&model.ForumPostVote{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// assertVoteInvariant reloads the post and checks the counters against the
// voter sets:
// upvotes == |upvotedBy|, downvotes == |downvotedBy|, and the sets disjoint.
func assertVoteInvariant(t *testing.T, db *gorm.DB, postID uint, wantUp, wantDown int) {
	t.Helper()

	var post model.ForumPost
	if err := db.Preload("Votes").First(&post, postID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}

	up := post.VotersFor(model.VoteUp)
	down := post.VotersFor(model.VoteDown)

	if post.Upvotes != len(up) {
		t.Errorf("upvotes counter %d != %d upvoters", post.Upvotes, len(up))
	}
	if post.Downvotes != len(down) {
		t.Errorf("downvotes counter %d != %d downvoters", post.Downvotes, len(down))
	}
	if post.Upvotes != wantUp {
		t.Errorf("expected %d upvotes, got %d", wantUp, post.Upvotes)
	}
	if post.Downvotes != wantDown {
		t.Errorf("expected %d downvotes, got %d", wantDown, post.Downvotes)
	}

	seen := make(map[uint]bool, len(up))
	for _, id := range up {
		seen[id] = true
	}
	for _, id := range down {
		if seen[id] {
			t.Errorf("voter %d appears in both voter sets", id)
		}
	}
}

func TestVoteInterleavingIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	db := openTestDB(t)
	svc := NewForumService(db)

	alice := model.User{Username: "vote-it-alice", Email: "vote-it-alice@example.edu", PasswordHash: "x"}
	bob := model.User{Username: "vote-it-bob", Email: "vote-it-bob@example.edu", PasswordHash: "x"}
	if err := db.Create(&alice).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := db.Create(&bob).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	university := model.University{Name: "Vote Invariant University"}
	if err := db.Create(&university).Error; err != nil {
		t.Fatalf("failed to create university: %v", err)
	}
	branch := model.Branch{UniversityID: university.ID, Name: "Main", Location: "Testville"}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("failed to create branch: %v", err)
	}
	thread := model.ForumThread{Title: "Vote invariants", Content: "testing", BranchID: branch.ID, AuthorID: alice.ID}
	if err := db.Create(&thread).Error; err != nil {
		t.Fatalf("failed to create thread: %v", err)
	}
	post := model.ForumPost{ThreadID: thread.ID, Content: "target post", AuthorID: alice.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("post_id = ?", post.ID).Delete(&model.ForumPostVote{})
		db.Unscoped().Delete(&post)
		db.Unscoped().Delete(&thread)
		db.Unscoped().Delete(&branch)
		db.Unscoped().Delete(&university)
		db.Unscoped().Delete(&alice)
		db.Unscoped().Delete(&bob)
	})

	t.Run("first upvote counts once", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, alice.ID, model.VoteUp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 1, 0)
	})

	t.Run("second voter adds to the set", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, bob.ID, model.VoteUp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 2, 0)
	})

	t.Run("repeating the held vote conflicts and changes nothing", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, alice.ID, model.VoteUp); !errors.Is(err, ErrAlreadyVoted) {
			t.Fatalf("expected ErrAlreadyVoted, got %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 2, 0)
	})

	t.Run("opposite vote switches direction atomically", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, alice.ID, model.VoteDown); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 1, 1)
	})

	t.Run("second voter switches too", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, bob.ID, model.VoteDown); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 0, 2)
	})

	t.Run("repeating the switched vote conflicts", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, bob.ID, model.VoteDown); !errors.Is(err, ErrAlreadyVoted) {
			t.Fatalf("expected ErrAlreadyVoted, got %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 0, 2)
	})

	t.Run("switching back keeps the sets disjoint", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, alice.ID, model.VoteUp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 1, 1)
	})

	t.Run("invalid direction is rejected without touching counters", func(t *testing.T) {
		if _, err := svc.Vote(post.ID, alice.ID, "sideways"); !errors.Is(err, ErrInvalidVote) {
			t.Fatalf("expected ErrInvalidVote, got %v", err)
		}
		assertVoteInvariant(t, db, post.ID, 1, 1)
	})
}
