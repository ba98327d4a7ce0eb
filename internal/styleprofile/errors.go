package styleprofile

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptySample     = errors.New("writing sample is empty")
	ErrEmptyText       = errors.New("text to mirror is empty")
	ErrProfileNotFound = errors.New("no style profile found")
)
