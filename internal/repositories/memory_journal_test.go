package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerooneblog/backend/internal/models"
)

func TestMemoryJournalReserve(t *testing.T) {
	journal := NewMemoryDeliveryJournal()
	ctx := context.Background()

	fresh, err := journal.Reserve(ctx, 1, models.NotificationKindNewPost, 10)
	require.NoError(t, err)
	assert.True(t, fresh)

	// Same key: already claimed.
	fresh, err = journal.Reserve(ctx, 1, models.NotificationKindNewPost, 10)
	require.NoError(t, err)
	assert.False(t, fresh)

	// Any component change makes a distinct key.
	fresh, err = journal.Reserve(ctx, 2, models.NotificationKindNewPost, 10)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = journal.Reserve(ctx, 1, models.NotificationKindNewPost, 11)
	require.NoError(t, err)
	assert.True(t, fresh)
}
