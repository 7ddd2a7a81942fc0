package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerooneblog/backend/internal/models"
)

func seedFollowNotification(t *testing.T, env *testEnv, actor *models.User, recipientID uint) *models.Notification {
	t.Helper()
	require.NoError(t, env.notificationService.NotifyUserFollowed(t.Context(), actor, recipientID))
	var n models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", recipientID).Order("id DESC").First(&n).Error)
	return &n
}

func TestGetNotificationsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := NewNotificationHandler(env.notificationService, env.userRepo)

	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	seedFollowNotification(t, env, bob, alice.ID)
	seedFollowNotification(t, env, bob, alice.ID)

	c, rec := newRequestContext(t, http.MethodGet, "/?page=1&limit=10", "", alice)
	require.NoError(t, handler.GetNotifications(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"totalItems":2`)
	// Actor enrichment resolves bob's username.
	assert.Contains(t, body, `"username":"bob"`)
}

func TestMarkAsReadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := NewNotificationHandler(env.notificationService, env.userRepo)

	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	n := seedFollowNotification(t, env, bob, alice.ID)

	// Only the recipient may mark it.
	c, _ := newRequestContext(t, http.MethodPut, "/", "", bob)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(n.ID))
	assert.Equal(t, http.StatusForbidden, httpStatus(t, handler.MarkAsRead(c)))

	c, rec := newRequestContext(t, http.MethodPut, "/", "", alice)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(n.ID))
	require.NoError(t, handler.MarkAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.Notification
	require.NoError(t, env.db.First(&got, n.ID).Error)
	assert.True(t, got.IsRead)

	// Unknown id is a 404.
	c, _ = newRequestContext(t, http.MethodPut, "/", "", alice)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, handler.MarkAsRead(c)))
}

func TestUnreadCountAndMarkAllEndpoints(t *testing.T) {
	env := newTestEnv(t)
	handler := NewNotificationHandler(env.notificationService, env.userRepo)

	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	seedFollowNotification(t, env, bob, alice.ID)
	seedFollowNotification(t, env, bob, alice.ID)

	c, rec := newRequestContext(t, http.MethodGet, "/", "", alice)
	require.NoError(t, handler.GetUnreadCount(c))
	assert.Contains(t, rec.Body.String(), `"count":2`)

	c, rec = newRequestContext(t, http.MethodPut, "/", "", alice)
	require.NoError(t, handler.MarkAllAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRequestContext(t, http.MethodGet, "/", "", alice)
	require.NoError(t, handler.GetUnreadCount(c))
	assert.Contains(t, rec.Body.String(), `"count":0`)
}
