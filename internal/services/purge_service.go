package services

import (
	"context"
	"errors"
	"log"

	"github.com/zerooneblog/backend/internal/models"
	"gorm.io/gorm"
)

// PurgeService removes a user and everything referencing them. The whole
// sequence runs inside one database transaction: a user is never left
// partially deleted.
//
// Deletion order is an explicit pipeline in reverse-dependency order. The
// user's post ids are collected first so post dependents (likes, comments,
// notifications, reports targeting the posts) go before the post rows, and
// everything referencing the user goes before the user row itself.
type PurgeService struct {
	db *gorm.DB
}

// NewPurgeService creates a new PurgeService
func NewPurgeService(db *gorm.DB) *PurgeService {
	return &PurgeService{db: db}
}

// PurgeUser deletes the user's entire footprint. Returns ErrUserNotFound
// when the id does not resolve. Any other failure rolls everything back.
// The transaction's row locks serialize the purge against concurrent
// likes/comments/follows touching the same user.
func (s *PurgeService) PurgeUser(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).
			Where("author_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		// Comments that will disappear with the user: authored by them, or
		// sitting on one of their posts. Reports targeting these must go too.
		var commentIDs []uint
		commentQuery := tx.Model(&models.Comment{}).Where("author_id = ?", userID)
		if len(postIDs) > 0 {
			commentQuery = tx.Model(&models.Comment{}).
				Where("author_id = ? OR post_id IN ?", userID, postIDs)
		}
		if err := commentQuery.Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		// 1. Reports filed by the user, reports aimed at the user directly,
		// and reports targeting comments that are about to be deleted.
		if err := tx.Where("reporter_id = ?", userID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.ReportTargetUser, userID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.ReportTargetComment, commentIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}

		// 2. Comments authored by the user, anywhere.
		if err := tx.Where("author_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		// 3. Likes placed by the user, anywhere.
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		// 4. The user's posts: dependents first, then the rows.
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("related_post_id IN ?", postIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN ?", models.ReportTargetPost, postIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		// 5. Follow edges with the user on either side.
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		// 6. Notifications where the user is recipient or actor.
		if err := tx.Where("recipient_id = ? OR actor_id = ?", userID, userID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		// 7. The user row itself.
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return err
	}

	log.Printf("purge: user %d and all referencing rows removed", userID)
	return nil
}
