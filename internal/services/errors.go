package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// statuses with errors.Is; anything else is a dependency failure and
// surfaces as a 500.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReportNotFound       = errors.New("report not found")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")

	ErrAlreadyLiked = errors.New("post already liked by this user")
	ErrNotLiked     = errors.New("post not liked by this user")

	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	ErrForbidden      = errors.New("operation not permitted")
	ErrAccountBlocked = errors.New("account is blocked")

	// ErrPartialFanout reports a fan-out batch in which some recipient
	// writes failed. It never fails the triggering write; callers log it
	// alongside the delivered count.
	ErrPartialFanout = errors.New("partial notification fan-out")
)
