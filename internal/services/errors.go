package services

import "errors"

var (
	// ErrValidation marks malformed or constraint-violating input. Wrapped
	// with a descriptive message; handlers map it to 400.
	ErrValidation = errors.New("validation failed")

	ErrReportNotFound       = errors.New("report not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrReportClosed means the report left pending and no longer accepts
	// votes.
	ErrReportClosed = errors.New("report is no longer open for voting")

	// ErrSelfVote and ErrAlreadyVoted are conflict errors: the request was
	// well-formed but clashes with existing state. Handlers map them to 409.
	ErrSelfVote     = errors.New("cannot vote on your own report")
	ErrAlreadyVoted = errors.New("you have already voted on this report")

	// ErrNotReportOwner means the requester is neither the author nor an
	// admin. Handlers map it to 403.
	ErrNotReportOwner = errors.New("you can only delete your own reports")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)
