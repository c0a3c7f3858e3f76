// Package common defines sentinel errors shared by the bot's layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Configuration errors.
	ErrMissingBotToken = errors.New("bot token is required")

	// Repository-level errors.
	ErrUnexpectedRows = errors.New("unexpected rows affected")

	// Store-level errors: every configured backend rejected the record.
	ErrPersistenceFailed = errors.New("persistence failed")

	// Conversation errors.
	ErrSessionNotComplete = errors.New("session is not complete")
)
