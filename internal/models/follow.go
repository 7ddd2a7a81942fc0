package models

import "time"

// Follow is a directed edge: FollowerID wants FollowingID's posts in their
// feed. The composite unique index makes the database the arbiter when two
// identical follow requests race. Rows are hard-deleted on unfollow, so a
// re-follow is a fresh edge with its own timestamp.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
