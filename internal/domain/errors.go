package domain

import "errors"

// Store sentinels shared by the repositories and their callers.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrResetTokenMismatch is returned when a conditional reset update matched no row.
	ErrResetTokenMismatch = errors.New("reset token no longer matches")
)
