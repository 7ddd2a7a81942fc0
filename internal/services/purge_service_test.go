package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerooneblog/backend/internal/models"
	"gorm.io/gorm"
)

func countWhere(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

func TestPurgeUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurgeService(db)

	err := svc.PurgeUser(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPurgeRemovesEntireFootprint(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurgeService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	// Mutual follows plus a bystander edge.
	follow(t, db, alice.ID, bob.ID)
	follow(t, db, bob.ID, alice.ID)
	follow(t, db, carol.ID, bob.ID)

	// Bob posts; alice likes and comments on it.
	bobPost := seedPost(t, db, bob.ID, "bob post")
	require.NoError(t, db.Create(&models.Like{PostID: bobPost.ID, UserID: alice.ID}).Error)
	aliceComment := &models.Comment{PostID: bobPost.ID, AuthorID: alice.ID, Content: "from alice"}
	require.NoError(t, db.Create(aliceComment).Error)

	// Alice posts; bob likes and comments on it.
	alicePost := seedPost(t, db, alice.ID, "alice post")
	require.NoError(t, db.Create(&models.Like{PostID: alicePost.ID, UserID: bob.ID}).Error)
	bobComment := &models.Comment{PostID: alicePost.ID, AuthorID: bob.ID, Content: "from bob"}
	require.NoError(t, db.Create(bobComment).Error)

	// Notifications in every direction, plus one untouched by the purge.
	notifs := []models.Notification{
		{Kind: models.NotificationKindLike, ActorID: alice.ID, RecipientID: bob.ID, RelatedPostID: bobPost.ID, Message: "liked your post"},
		{Kind: models.NotificationKindLike, ActorID: bob.ID, RecipientID: alice.ID, RelatedPostID: alicePost.ID, Message: "liked your post"},
		{Kind: models.NotificationKindFollow, ActorID: carol.ID, RecipientID: bob.ID, Message: "started following you"},
	}
	for i := range notifs {
		require.NoError(t, db.Create(&notifs[i]).Error)
	}

	// Reports touching alice from every angle: one she filed, one against
	// her post, one against her account, one against her comment, one
	// against a comment on her post. Plus a control report against bob.
	require.NoError(t, db.Create(&models.Report{ReporterID: alice.ID, TargetType: models.ReportTargetPost, TargetID: bobPost.ID, Reason: "spam", Status: models.ReportStatusNew}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: carol.ID, TargetType: models.ReportTargetPost, TargetID: alicePost.ID, Reason: "spam", Status: models.ReportStatusNew}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: bob.ID, TargetType: models.ReportTargetUser, TargetID: alice.ID, Reason: "abuse", Status: models.ReportStatusNew}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: carol.ID, TargetType: models.ReportTargetComment, TargetID: aliceComment.ID, Reason: "rude", Status: models.ReportStatusNew}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: carol.ID, TargetType: models.ReportTargetComment, TargetID: bobComment.ID, Reason: "rude", Status: models.ReportStatusNew}).Error)
	require.NoError(t, db.Create(&models.Report{ReporterID: carol.ID, TargetType: models.ReportTargetUser, TargetID: bob.ID, Reason: "abuse", Status: models.ReportStatusNew}).Error)

	require.NoError(t, svc.PurgeUser(ctx, alice.ID))

	// The user row is gone.
	assert.Zero(t, countWhere(t, db, &models.User{}, "id = ?", alice.ID))

	// Alice's posts and everything hanging off them are gone.
	assert.Zero(t, countWhere(t, db, &models.Post{}, "author_id = ?", alice.ID))
	assert.Zero(t, countWhere(t, db, &models.Like{}, "post_id = ?", alicePost.ID))
	assert.Zero(t, countWhere(t, db, &models.Comment{}, "post_id = ?", alicePost.ID))

	// Alice's likes and comments elsewhere are gone.
	assert.Zero(t, countWhere(t, db, &models.Like{}, "user_id = ?", alice.ID))
	assert.Zero(t, countWhere(t, db, &models.Comment{}, "author_id = ?", alice.ID))

	// No follow edge touches alice on either side.
	assert.Zero(t, countWhere(t, db, &models.Follow{}, "follower_id = ? OR following_id = ?", alice.ID, alice.ID))

	// No notification references alice as recipient or actor.
	assert.Zero(t, countWhere(t, db, &models.Notification{}, "recipient_id = ? OR actor_id = ?", alice.ID, alice.ID))

	// Reports alice filed and reports against her posts, her account, her
	// comment, and the comment that lived on her post are all gone.
	assert.Zero(t, countWhere(t, db, &models.Report{}, "reporter_id = ?", alice.ID))
	assert.Zero(t, countWhere(t, db, &models.Report{}, "target_type = ? AND target_id = ?", models.ReportTargetPost, alicePost.ID))
	assert.Zero(t, countWhere(t, db, &models.Report{}, "target_type = ? AND target_id = ?", models.ReportTargetUser, alice.ID))
	assert.Zero(t, countWhere(t, db, &models.Report{}, "target_type = ? AND target_id IN ?", models.ReportTargetComment, []uint{aliceComment.ID, bobComment.ID}))

	// Everyone else's world is intact.
	assert.Equal(t, int64(1), countWhere(t, db, &models.User{}, "id = ?", bob.ID))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Post{}, "id = ?", bobPost.ID))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Follow{}, "follower_id = ? AND following_id = ?", carol.ID, bob.ID))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Notification{}, "actor_id = ? AND recipient_id = ?", carol.ID, bob.ID))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Report{}, "target_type = ? AND target_id = ?", models.ReportTargetUser, bob.ID))
}

func TestPurgeIsIdempotentlyGone(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurgeService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	require.NoError(t, svc.PurgeUser(ctx, alice.ID))

	// A second purge finds nothing to remove.
	assert.ErrorIs(t, svc.PurgeUser(ctx, alice.ID), ErrUserNotFound)
}

func TestPurgeLeavesUnrelatedGraphAlone(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurgeService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	follow(t, db, bob.ID, carol.ID)
	carolPost := seedPost(t, db, carol.ID, "carol post")
	require.NoError(t, db.Create(&models.Like{PostID: carolPost.ID, UserID: bob.ID}).Error)

	require.NoError(t, svc.PurgeUser(ctx, alice.ID))

	assert.Equal(t, int64(2), countWhere(t, db, &models.User{}, "1 = 1"))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Follow{}, "1 = 1"))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Like{}, "1 = 1"))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Post{}, "1 = 1"))
}
