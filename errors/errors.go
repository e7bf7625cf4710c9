package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists   = fmt.Errorf("user already exists")
	ErrEmailNotVerified    = fmt.Errorf("email not verified")
	ErrInvalidVerification = fmt.Errorf("invalid verification code")
	ErrTokenGeneration     = fmt.Errorf("failed to generate token")
	ErrInvalidToken        = fmt.Errorf("invalid or expired token")
	ErrMissingToken        = fmt.Errorf("missing bearer token")
	ErrForbidden           = fmt.Errorf("action not allowed")

	ErrValidation     = fmt.Errorf("validation failed")
	ErrEmptyContent   = fmt.Errorf("content is empty")
	ErrContentTooLong = fmt.Errorf("content exceeds maximum length")
	ErrSelfMessage    = fmt.Errorf("cannot send a message to yourself")
	ErrSelfRequest    = fmt.Errorf("cannot send a friend request to yourself")
	ErrInvalidCursor  = fmt.Errorf("invalid cursor")
	ErrInvalidFrame   = fmt.Errorf("invalid frame")
	ErrUnknownFrame   = fmt.Errorf("unknown frame type")

	ErrUserNotFound          = fmt.Errorf("user not found")
	ErrPostNotFound          = fmt.Errorf("post not found")
	ErrFriendRequestNotFound = fmt.Errorf("friend request not found")
	ErrCompanyNotFound       = fmt.Errorf("company not found")
	ErrJobNotFound           = fmt.Errorf("job not found")
	ErrApplicationNotFound   = fmt.Errorf("application not found")

	ErrAlreadyFriends        = fmt.Errorf("users are already friends")
	ErrRequestAlreadyPending = fmt.Errorf("friend request already pending")
	ErrRequestNotPending     = fmt.Errorf("friend request is not pending")
	ErrAlreadyApplied        = fmt.Errorf("already applied to this job")
	ErrJobClosed             = fmt.Errorf("job is closed")
	ErrInvalidStatus         = fmt.Errorf("invalid status transition")

	ErrPersistence       = fmt.Errorf("persistence failed")
	ErrUnknownEventKind  = fmt.Errorf("unknown event kind")
	ErrConnectionClosed  = fmt.Errorf("connection closed")
	ErrSendBufferFull    = fmt.Errorf("send buffer full")
	ErrUnsupportedAvatar = fmt.Errorf("unsupported avatar content type")
	ErrAvatarTooLarge    = fmt.Errorf("avatar exceeds maximum size")
)
