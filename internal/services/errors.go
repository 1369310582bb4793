package services

import "errors"

var (
	// ErrSessionNotFound is returned when history is requested for a
	// conversation that was never ingested. Ingestion never returns this;
	// unknown IDs are created lazily there.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage is returned when a blank message is submitted.
	ErrEmptyMessage = errors.New("message cannot be empty")
)
