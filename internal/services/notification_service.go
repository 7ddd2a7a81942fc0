package services

import (
	"context"
	"errors"
	"log"

	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"gorm.io/gorm"
)

// Notification messages are fixed strings; the actor travels as actor_id and
// is resolved client-side, never embedded in the message.
const (
	msgNewPost   = "posted a new update"
	msgLiked     = "liked your post"
	msgFollowed  = "started following you"
	msgCommented = "commented: "

	// Comment excerpt budget, in runes.
	excerptLimit = 50
)

// NotificationService fans content events out into persisted notification
// records, one per recipient, and owns the read/unread lifecycle.
//
// Fan-out is at-least-once. A NEW_POST batch claims each (recipient, kind,
// post) key in the delivery journal before writing, so re-triggering the
// batch after a crash skips recipients that were already delivered.
type NotificationService struct {
	notificationRepository repositories.NotificationRepository
	followRepository       repositories.FollowRepository
	journal                repositories.DeliveryJournal
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	journal repositories.DeliveryJournal,
) *NotificationService {
	return &NotificationService{
		notificationRepository: notifRepo,
		followRepository:       followRepo,
		journal:                journal,
	}
}

// NotifyPostCreated creates one NEW_POST notification for every follower of
// the post's author. Callers invoke it exactly once, after the post row has
// committed. The recipient set is read once up front; an empty set is a
// no-op. A failure on one recipient never blocks the others: failures are
// logged and counted, and the delivered count is returned together with
// ErrPartialFanout when any write failed.
func (s *NotificationService) NotifyPostCreated(ctx context.Context, post *models.Post) (int, error) {
	recipientIDs, err := s.followRepository.GetFollowerIDs(ctx, post.AuthorID)
	if err != nil {
		return 0, err
	}
	if len(recipientIDs) == 0 {
		return 0, nil
	}

	delivered := 0
	failed := 0
	for _, recipientID := range recipientIDs {
		fresh, err := s.journal.Reserve(ctx, recipientID, models.NotificationKindNewPost, post.ID)
		if err != nil {
			log.Printf("fanout: journal reserve failed for recipient %d post %d: %v", recipientID, post.ID, err)
			failed++
			continue
		}
		if !fresh {
			// Already delivered by an earlier run of this batch.
			continue
		}

		notification := &models.Notification{
			Kind:          models.NotificationKindNewPost,
			ActorID:       post.AuthorID,
			RecipientID:   recipientID,
			RelatedPostID: post.ID,
			Message:       msgNewPost,
		}
		if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
			log.Printf("fanout: failed to notify recipient %d for post %d: %v", recipientID, post.ID, err)
			failed++
			continue
		}
		delivered++
	}

	if failed > 0 {
		log.Printf("fanout: post %d delivered %d/%d notifications", post.ID, delivered, len(recipientIDs))
		return delivered, ErrPartialFanout
	}
	return delivered, nil
}

// NotifyPostLiked notifies the post's author of a like. Liking your own
// post notifies nobody.
func (s *NotificationService) NotifyPostLiked(ctx context.Context, actor *models.User, post *models.Post) error {
	if actor.ID == post.AuthorID {
		return nil
	}
	return s.notificationRepository.CreateNotification(ctx, &models.Notification{
		Kind:          models.NotificationKindLike,
		ActorID:       actor.ID,
		RecipientID:   post.AuthorID,
		RelatedPostID: post.ID,
		Message:       msgLiked,
	})
}

// NotifyPostCommented notifies the post's author of a comment, carrying a
// truncated excerpt of the comment text. Self-comments notify nobody.
func (s *NotificationService) NotifyPostCommented(ctx context.Context, actor *models.User, post *models.Post, commentText string) error {
	if actor.ID == post.AuthorID {
		return nil
	}
	return s.notificationRepository.CreateNotification(ctx, &models.Notification{
		Kind:          models.NotificationKindComment,
		ActorID:       actor.ID,
		RecipientID:   post.AuthorID,
		RelatedPostID: post.ID,
		Message:       msgCommented + `"` + truncateExcerpt(commentText) + `"`,
	})
}

// NotifyUserFollowed notifies followedID of a new follower. No self check
// needed here: FollowService rejects self-follow before this runs.
func (s *NotificationService) NotifyUserFollowed(ctx context.Context, follower *models.User, followedID uint) error {
	return s.notificationRepository.CreateNotification(ctx, &models.Notification{
		Kind:        models.NotificationKindFollow,
		ActorID:     follower.ID,
		RecipientID: followedID,
		Message:     msgFollowed,
	})
}

// All returns the user's notifications, newest first, with the total count.
func (s *NotificationService) All(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	return s.notificationRepository.GetByRecipientID(ctx, userID, offset, limit)
}

// Unread returns the user's unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notificationRepository.GetUnreadByRecipientID(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepository.GetUnreadCount(ctx, userID)
}

// MarkRead flips one notification to read. Only the recipient may do this.
// Re-marking an already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	notification, err := s.notificationRepository.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.RecipientID != userID {
		return ErrForbidden
	}
	if notification.IsRead {
		return nil
	}
	err = s.notificationRepository.MarkAsRead(ctx, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// MarkAllRead flips every currently-unread notification for the user.
// Notifications created concurrently may or may not be included.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepository.MarkAllAsRead(ctx, userID)
}

// DeleteByPost removes every notification referencing the post. Called when
// a post is deleted.
func (s *NotificationService) DeleteByPost(ctx context.Context, postID uint) error {
	return s.notificationRepository.DeleteByPostID(ctx, postID)
}

// DeleteByUser removes every notification referencing the user. Called
// during account purge.
func (s *NotificationService) DeleteByUser(ctx context.Context, userID uint) error {
	return s.notificationRepository.DeleteByUser(ctx, userID)
}

// truncateExcerpt caps the comment excerpt at excerptLimit runes, marking
// truncation with an ellipsis.
func truncateExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "..."
}
