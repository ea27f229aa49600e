package models

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("listing belongs to another owner")
	ErrUserNotFound    = errors.New("user not found")
)
