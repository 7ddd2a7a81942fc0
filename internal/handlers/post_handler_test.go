package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
)

func newPostHandler(env *testEnv) *PostHandler {
	return NewPostHandler(
		repositories.NewPostgresPostRepository(env.db),
		repositories.NewPostgresLikeRepository(env.db),
		repositories.NewPostgresCommentRepository(env.db),
		env.notificationService,
	)
}

func TestCreatePostFansOutToFollowers(t *testing.T) {
	env := newTestEnv(t)
	handler := newPostHandler(env)

	author := env.seedUser(t, "author")
	fan := env.seedUser(t, "fan")
	lurker := env.seedUser(t, "lurker")
	require.NoError(t, env.db.Create(&models.Follow{FollowerID: fan.ID, FollowingID: author.ID}).Error)

	c, rec := newRequestContext(t, http.MethodPost, "/", `{"content":"hello world"}`, author)
	require.NoError(t, handler.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var post models.Post
	require.NoError(t, env.db.First(&post).Error)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "hello world", post.Content)

	// One NEW_POST notification per follower, none for anyone else.
	var notifs []models.Notification
	require.NoError(t, env.db.Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, fan.ID, notifs[0].RecipientID)
	assert.Equal(t, models.NotificationKindNewPost, notifs[0].Kind)
	assert.Equal(t, post.ID, notifs[0].RelatedPostID)

	var lurkerCount int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("recipient_id = ?", lurker.ID).Count(&lurkerCount).Error)
	assert.Zero(t, lurkerCount)
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	handler := newPostHandler(env)
	author := env.seedUser(t, "author")

	c, _ := newRequestContext(t, http.MethodPost, "/", `{"content":""}`, author)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, handler.CreatePost(c)))

	c, _ = newRequestContext(t, http.MethodPost, "/", `{"content":"hi"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, handler.CreatePost(c)))
}

func TestDeletePostRemovesDependents(t *testing.T) {
	env := newTestEnv(t)
	handler := newPostHandler(env)

	author := env.seedUser(t, "author")
	fan := env.seedUser(t, "fan")

	post := &models.Post{AuthorID: author.ID, Content: "doomed"}
	require.NoError(t, env.db.Create(post).Error)
	require.NoError(t, env.db.Create(&models.Like{PostID: post.ID, UserID: fan.ID}).Error)
	require.NoError(t, env.db.Create(&models.Comment{PostID: post.ID, AuthorID: fan.ID, Content: "hi"}).Error)
	require.NoError(t, env.db.Create(&models.Notification{
		Kind: models.NotificationKindLike, ActorID: fan.ID, RecipientID: author.ID,
		RelatedPostID: post.ID, Message: "liked your post",
	}).Error)

	// A non-author cannot delete it.
	c, _ := newRequestContext(t, http.MethodDelete, "/", "", fan)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	assert.Equal(t, http.StatusForbidden, httpStatus(t, handler.DeletePost(c)))

	c, rec := newRequestContext(t, http.MethodDelete, "/", "", author)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, handler.DeletePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, model := range []interface{}{&models.Post{}, &models.Like{}, &models.Comment{}, &models.Notification{}} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
