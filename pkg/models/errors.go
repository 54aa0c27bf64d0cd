package models

import (
	"errors"
	"fmt"
)

// Domain errors the orchestration boundary translates into caller-facing
// outcomes. Backend and parser failures are always one of these types,
// never an unclassified error.

var (
	ErrRoomNotFound             = errors.New("room not found")
	ErrRecordingNotFound        = errors.New("no recording found for this event")
	ErrRecordingNotSavable      = errors.New("recording is in an error state or has already been saved")
	ErrNoActiveRecording        = errors.New("no active recording found for this room")
	ErrDuplicateActiveRecording = errors.New("an active recording already exists for this room")
	ErrLobbyParticipantNotFound = errors.New("lobby participant not found")
	ErrRoomHasNoLobby           = errors.New("public rooms have no lobby")
	ErrInvalidEntryRequest      = errors.New("invalid entry request")
)

// RecordingStartError wraps a worker backend failure to start a recording.
type RecordingStartError struct {
	Mode string
	Err  error
}

func (e *RecordingStartError) Error() string {
	return fmt.Sprintf("recording failed to start (mode %s): %v", e.Mode, e.Err)
}

func (e *RecordingStartError) Unwrap() error {
	return e.Err
}

// RecordingStopError wraps a worker backend failure to stop a recording.
// The recording stays retryable unless the stop attempt bound is reached.
type RecordingStopError struct {
	Mode string
	Err  error
}

func (e *RecordingStopError) Error() string {
	return fmt.Sprintf("recording failed to stop (mode %s): %v", e.Mode, e.Err)
}

func (e *RecordingStopError) Unwrap() error {
	return e.Err
}

// ParsingEventDataError marks a storage event payload that is structurally
// invalid or missing required fields. Treated as suspicious input.
type ParsingEventDataError struct {
	Reason string
}

func (e *ParsingEventDataError) Error() string {
	return fmt.Sprintf("invalid storage event data: %s", e.Reason)
}

// InvalidBucketError marks an event referencing a bucket outside the
// configured set.
type InvalidBucketError struct {
	Bucket string
}

func (e *InvalidBucketError) Error() string {
	return fmt.Sprintf("invalid bucket specified: %s", e.Bucket)
}

// InvalidFileTypeError marks a well-formed event for a file type this
// pipeline does not act on. Benign, acknowledged as a no-op.
type InvalidFileTypeError struct {
	FileType string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("ignored file type: %s", e.FileType)
}
