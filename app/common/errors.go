package common

import (
	"errors"
	"fmt"
)

// Sentinel errors for the storage and download layers. Absence of data
// (chapter not found, page past the end, zero search matches, corpus not
// downloaded yet) is never an error; it is a nil or empty return.
var (
	// ErrStorageUnavailable means the local database could not be opened.
	// Every repository call is unusable until it is resolved.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidJuz means a juz id outside 1..30 was requested.
	ErrInvalidJuz = errors.New("invalid juz id")

	// ErrDownloadFailed covers network errors, non-200 responses and
	// malformed payloads during corpus population. Retryable.
	ErrDownloadFailed = errors.New("download failed")

	// ErrDownloadInProgress rejects a second download of the same corpus
	// while one is in flight.
	ErrDownloadInProgress = errors.New("download already in progress")
)

type UserVisibleError struct {
	HttpCode int
	Message  string
}

func (e *UserVisibleError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.HttpCode, e.Message)
}

func NewUserVisibleError(httpCode int, message string) *UserVisibleError {
	return &UserVisibleError{
		HttpCode: httpCode,
		Message:  message,
	}
}

func WrapErrorForResponse(err error, message string) error {
	if e, ok := err.(*UserVisibleError); ok {
		return &UserVisibleError{
			HttpCode: e.HttpCode,
			Message:  fmt.Sprintf("%s: %s", message, e.Message),
		}
	}
	return err
}
