// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no user row exists for the given identifier.
	ErrUserNotFound = errors.New("user not found")
)
