package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses by the handler layer.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAnswerNotFound       = errors.New("answer not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidAuthCode  = errors.New("invalid or expired authorization code")
	ErrAccountSuspended = errors.New("account is suspended")
	ErrAlreadyExists    = errors.New("resource already exists")
)

// PermissionError is returned when a user attempts an operation their
// role or ownership does not allow.
type PermissionError struct {
	UserID   string
	Resource string
	ID       uint
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
	}
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userID string, id uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		ID:       id,
		Action:   action,
		Reason:   reason,
	}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var permErr *PermissionError
	return errors.As(err, &permErr)
}
