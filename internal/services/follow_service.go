package services

import (
	"context"
	"errors"

	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"gorm.io/gorm"
)

// FollowService owns the directed follow graph. Creating an edge has no
// side effects beyond the edge itself; the FOLLOW notification is a
// separate, explicit step the caller performs after Follow succeeds.
type FollowService struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowService creates a new FollowService
func NewFollowService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowService {
	return &FollowService{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// Follow creates the edge follower -> followed. Returns ErrSelfFollow when
// the ids are equal, ErrUserNotFound when either endpoint does not exist and
// ErrAlreadyFollowing when the edge is already present. Two racing calls on
// the same pair are arbitrated by the unique index on (follower, following):
// the loser's insert comes back as a duplicate-key error, never a second row.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	if _, err := s.userRepository.GetUserByID(ctx, followerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.userRepository.GetUserByID(ctx, followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	isFollowing, err := s.followRepository.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if isFollowing {
		return ErrAlreadyFollowing
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followedID,
	}
	if err := s.followRepository.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes the edge. Returns ErrNotFollowing when it does not exist.
// The row is hard-deleted, so a later re-follow is observably a fresh edge.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := s.followRepository.DeleteFollow(ctx, followerID, followedID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFollowing
	}
	return err
}

// IsFollowing reports whether the edge follower -> followed exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.followRepository.IsFollowing(ctx, followerID, followedID)
}

// Followers returns the users following userID: the fan-out recipient set.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepository.GetFollowers(ctx, userID)
}

// Following returns the users userID follows: the feed author set.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepository.GetFollowing(ctx, userID)
}

func (s *FollowService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return s.followRepository.GetFollowersCount(ctx, userID)
}

func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return s.followRepository.GetFollowingCount(ctx, userID)
}

func (s *FollowService) requireUser(ctx context.Context, userID uint) error {
	if _, err := s.userRepository.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
