package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"gorm.io/gorm"
)

func newFollowService(t *testing.T) (*FollowService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	followRepo := repositories.NewPostgresFollowRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db)
	return NewFollowService(followRepo, userRepo), db
}

func TestFollowCreatesEdge(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed: bob does not follow alice.
	reverse, err := svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestFollowSelf(t *testing.T) {
	svc, db := newFollowService(t)
	alice := seedUser(t, db, "alice")

	err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFollowUnknownUser(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, 9999), ErrUserNotFound)
	assert.ErrorIs(t, svc.Follow(ctx, 9999, alice.ID), ErrUserNotFound)
}

func TestFollowTwice(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)

	// Still exactly one edge.
	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnfollowRemovesEdge(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestUnfollowMissingEdge(t *testing.T) {
	svc, db := newFollowService(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	err := svc.Unfollow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestRefollowIsFreshEdge(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	var first models.Follow
	require.NoError(t, db.First(&first).Error)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	// The old row was hard-deleted; the re-follow is a brand new row.
	var edges []models.Follow
	require.NoError(t, db.Find(&edges).Error)
	require.Len(t, edges, 1)
	assert.NotEqual(t, first.ID, edges[0].ID)
}

func TestFollowersAndFollowing(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, carol.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))

	followers, err := svc.Followers(ctx, bob.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(followers))
	for _, u := range followers {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "carol"}, names)

	following, err := svc.Following(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].Username)

	followerCount, err := svc.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followerCount)

	followingCount, err := svc.FollowingCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followingCount)
}

func TestFollowersOfUnknownUser(t *testing.T) {
	svc, _ := newFollowService(t)

	_, err := svc.Followers(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Following(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
