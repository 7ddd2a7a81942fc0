package services

import (
	"context"
	"errors"

	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"gorm.io/gorm"
)

// FeedEntry is a post annotated with the viewing user's context. Derived on
// demand, never stored.
type FeedEntry struct {
	models.Post
	Author       models.UserCompact `json:"author"`
	LikeCount    int64              `json:"like_count"`
	CommentCount int64              `json:"comment_count"`
	IsLiked      bool               `json:"is_liked"`
	IsOwn        bool               `json:"is_own"`
}

// FeedService assembles the reverse-chronological union of a user's own
// posts and the posts of everyone the user follows. Ordering is
// created_at DESC with id DESC as the tie-break, so repeated reads with no
// intervening writes return identical output.
type FeedService struct {
	postRepository    repositories.PostRepository
	followRepository  repositories.FollowRepository
	userRepository    repositories.UserRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *FeedService {
	return &FeedService{
		postRepository:    postRepo,
		followRepository:  followRepo,
		userRepository:    userRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// Feed returns the user's feed page. The author set is following(user) plus
// the user themself; a user who follows nobody sees exactly their own posts.
func (s *FeedService) Feed(ctx context.Context, userID uint, offset, limit int) ([]FeedEntry, error) {
	if _, err := s.userRepository.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	authorIDs, err := s.followRepository.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, userID)

	posts, err := s.postRepository.GetPostsByAuthorIDs(ctx, authorIDs, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, userID)
}

// Timeline returns the global, unfiltered chronological view.
func (s *FeedService) Timeline(ctx context.Context, viewerID uint, offset, limit int) ([]FeedEntry, error) {
	posts, err := s.postRepository.GetAllPosts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// enrich attaches author info and the viewer's like/ownership context.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post, viewerID uint) ([]FeedEntry, error) {
	entries := make([]FeedEntry, len(posts))
	authorCache := make(map[uint]models.UserCompact)

	for i, post := range posts {
		entry := FeedEntry{Post: post, IsOwn: post.AuthorID == viewerID}

		author, ok := authorCache[post.AuthorID]
		if !ok {
			user, err := s.userRepository.GetUserByID(ctx, post.AuthorID)
			if err == nil {
				author = user.ToCompact()
				authorCache[post.AuthorID] = author
			}
		}
		entry.Author = author

		likeCount, err := s.likeRepository.GetLikesCountByPostID(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		entry.LikeCount = likeCount

		commentCount, err := s.commentRepository.GetCommentsCountByPostID(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		entry.CommentCount = commentCount

		if viewerID > 0 {
			liked, err := s.likeRepository.HasUserLikedPost(ctx, post.ID, viewerID)
			if err != nil {
				return nil, err
			}
			entry.IsLiked = liked
		}

		entries[i] = entry
	}
	return entries, nil
}
