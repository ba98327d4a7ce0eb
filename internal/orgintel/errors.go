package orgintel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoOrgIntel   = errors.New("no organizational intelligence found")
)
