package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateHandle is returned when registering an already taken handle.
	ErrDuplicateHandle = errors.New("handle already registered")
	// ErrInvalidCredentials is returned on failed login, regardless of
	// whether the handle or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingEvidence blocks a commit without a captured photo.
	ErrMissingEvidence = errors.New("evidence image is missing")
	// ErrInvalidEvidence blocks a commit whose photo payload does not
	// decode as an image.
	ErrInvalidEvidence = errors.New("evidence payload is not a valid image")
	// ErrMissingLocation blocks a commit without a coordinate fix.
	ErrMissingLocation = errors.New("location fix is missing")

	// ErrEmptyRange is returned when an export matches zero events.
	ErrEmptyRange = errors.New("no events in range")
	// ErrSelfRoleChange is returned when an admin targets their own role.
	ErrSelfRoleChange = errors.New("cannot change own role")
	// ErrBrokenAlternation rejects a correction that would make a user's
	// chronological event sequence stop alternating IN/OUT.
	ErrBrokenAlternation = errors.New("correction breaks in/out alternation")
)

// DecodeError reports a store row that failed schema validation.
type DecodeError struct {
	Field string
	Value string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed row: field %s has invalid value %q", e.Field, e.Value)
}
