package repository

import "errors"

// Backend-neutral errors so the service layer can react to specific failures.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)
