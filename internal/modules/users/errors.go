package users

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailDuplicate = errors.New("email already in use")
)
