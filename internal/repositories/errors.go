package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError marks lookups that resolved to no record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %s", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for a resource and id.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFoundError reports whether err is a missing-record error from any
// repository layer.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var nfe *NotFoundError
	return errors.As(err, &nfe) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ConflictError marks writes rejected by a uniqueness constraint.
type ConflictError struct {
	Resource string
	Field    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists with this %s", e.Resource, e.Field)
}

// IsConflictError reports whether err is a duplicate-record error.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, gorm.ErrDuplicatedKey)
}
