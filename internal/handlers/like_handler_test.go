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

func newLikeHandler(env *testEnv) *LikeHandler {
	return NewLikeHandler(
		repositories.NewPostgresLikeRepository(env.db),
		repositories.NewPostgresPostRepository(env.db),
		env.userRepo,
		env.notificationService,
	)
}

func seedPostRow(t *testing.T, env *testEnv, authorID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: content}
	require.NoError(t, env.db.Create(post).Error)
	return post
}

func TestLikePostEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := newLikeHandler(env)

	author := env.seedUser(t, "author")
	liker := env.seedUser(t, "liker")
	post := seedPostRow(t, env, author.ID, "hello")

	c, rec := newRequestContext(t, http.MethodPost, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, handler.LikePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var likeCount int64
	require.NoError(t, env.db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", post.ID, liker.ID).Count(&likeCount).Error)
	assert.Equal(t, int64(1), likeCount)

	// The author hears about it.
	var notif models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", author.ID).First(&notif).Error)
	assert.Equal(t, models.NotificationKindLike, notif.Kind)
	assert.Equal(t, liker.ID, notif.ActorID)
	assert.Equal(t, post.ID, notif.RelatedPostID)
}

func TestLikePostEndpointErrors(t *testing.T) {
	env := newTestEnv(t)
	handler := newLikeHandler(env)

	author := env.seedUser(t, "author")
	liker := env.seedUser(t, "liker")
	post := seedPostRow(t, env, author.ID, "hello")

	// Liking a post that does not exist is a 404.
	c, _ := newRequestContext(t, http.MethodPost, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues("9999")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, handler.LikePost(c)))

	c, _ = newRequestContext(t, http.MethodPost, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, handler.LikePost(c))

	// Liking the same post twice is a 409, and no second row appears.
	c, _ = newRequestContext(t, http.MethodPost, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	assert.Equal(t, http.StatusConflict, httpStatus(t, handler.LikePost(c)))

	var likeCount int64
	require.NoError(t, env.db.Model(&models.Like{}).
		Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Equal(t, int64(1), likeCount)

	// Unauthenticated is a 401.
	c, _ = newRequestContext(t, http.MethodPost, "/", "", nil)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, handler.LikePost(c)))
}

func TestUnlikePostEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := newLikeHandler(env)

	author := env.seedUser(t, "author")
	liker := env.seedUser(t, "liker")
	post := seedPostRow(t, env, author.ID, "hello")

	// Unliking a post never liked is a 404.
	c, _ := newRequestContext(t, http.MethodDelete, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, handler.UnlikePost(c)))

	c, _ = newRequestContext(t, http.MethodPost, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, handler.LikePost(c))

	c, rec := newRequestContext(t, http.MethodDelete, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, handler.UnlikePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var likeCount int64
	require.NoError(t, env.db.Model(&models.Like{}).Count(&likeCount).Error)
	assert.Zero(t, likeCount)

	// Unliking again finds nothing.
	c, _ = newRequestContext(t, http.MethodDelete, "/", "", liker)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, handler.UnlikePost(c)))
}
