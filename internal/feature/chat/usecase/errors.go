// Package usecase はchatフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrMissingRecipientOrContent is returned when a send request lacks a
	// receiver identifier or a non-empty content. No side effect is performed.
	ErrMissingRecipientOrContent = errors.New("missing recipient or content")

	// ErrPersistence is returned when the directory or the store is unavailable.
	// The connection stays open; retrying the same send is the client's call.
	ErrPersistence = errors.New("failed to send message")
)
