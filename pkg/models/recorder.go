package models

import (
	"context"
	"database/sql"
	"errors"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

// RecordingStatusStore is the slice of the database service the mediator
// uses for conditional status transitions.
type RecordingStatusStore interface {
	MarkRecordingActive(recordID, jobRef string) (bool, error)
	UpdateRecordingStatus(recordID string, from []dbmodels.RecordingStatus, to dbmodels.RecordingStatus) (bool, error)
	IncrementStopAttempts(recordID string) (int, error)
}

// RecorderModel mediates between the recording lifecycle and the worker
// backends: it picks the adapter for the recording's mode, translates
// backend failures into domain errors and applies the resulting status
// transitions.
type RecorderModel struct {
	app      *config.AppConfig
	ds       RecordingStatusStore
	registry *WorkerRegistry
	logger   *logrus.Entry
}

func NewRecorderModel(app *config.AppConfig, ds RecordingStatusStore, registry *WorkerRegistry, logger *logrus.Logger) *RecorderModel {
	return &RecorderModel{
		app:      app,
		ds:       ds,
		registry: registry,
		logger:   logger.WithField("model", "recorder"),
	}
}

// StartRecording asks the mode's backend to start capturing. On success the
// recording becomes ACTIVE with the backend's job reference attached; on
// failure it becomes ERROR and the caller gets a *RecordingStartError.
// Uniqueness of active recordings per room is enforced at creation, not
// here.
func (m *RecorderModel) StartRecording(ctx context.Context, recording *dbmodels.Recording) error {
	log := m.logger.WithFields(logrus.Fields{
		"roomId":   recording.RoomID,
		"recordId": recording.RecordID,
		"mode":     recording.Mode,
	})

	worker, err := m.registry.Get(recording.Mode)
	if err != nil {
		m.markStartFailed(recording, log)
		return &RecordingStartError{Mode: recording.Mode, Err: err}
	}

	jobRef, err := worker.StartRecording(ctx, recording)
	if err != nil {
		m.markStartFailed(recording, log)

		var startErr *RecordingStartError
		if errors.As(err, &startErr) {
			return err
		}
		return &RecordingStartError{Mode: recording.Mode, Err: err}
	}

	ok, err := m.ds.MarkRecordingActive(recording.RecordID, jobRef)
	if err != nil {
		log.WithError(err).Errorln("failed to persist ACTIVE transition")
		return &RecordingStartError{Mode: recording.Mode, Err: err}
	}
	if !ok {
		log.Warnln("recording left INITIATED before start completed")
	}

	recording.Status = dbmodels.RecordingStatusActive
	recording.WorkerJobRef = sql.NullString{String: jobRef, Valid: true}
	log.Infoln("recording started")

	return nil
}

// StopRecording asks the backend to stop an ACTIVE recording. On success the
// status is left for the storage pipeline to finalize. On failure the
// recording stays ACTIVE and retryable, until the configured stop attempt
// bound (if any) forces it into ERROR.
func (m *RecorderModel) StopRecording(ctx context.Context, recording *dbmodels.Recording) error {
	log := m.logger.WithFields(logrus.Fields{
		"roomId":   recording.RoomID,
		"recordId": recording.RecordID,
		"mode":     recording.Mode,
	})

	worker, err := m.registry.Get(recording.Mode)
	if err != nil {
		return &RecordingStopError{Mode: recording.Mode, Err: err}
	}

	if err := worker.StopRecording(ctx, recording); err != nil {
		m.handleStopFailure(recording, log)

		var stopErr *RecordingStopError
		if errors.As(err, &stopErr) {
			return err
		}
		return &RecordingStopError{Mode: recording.Mode, Err: err}
	}

	log.Infoln("recording stopped, waiting for the storage event")
	return nil
}

func (m *RecorderModel) markStartFailed(recording *dbmodels.Recording, log *logrus.Entry) {
	_, err := m.ds.UpdateRecordingStatus(recording.RecordID,
		[]dbmodels.RecordingStatus{dbmodels.RecordingStatusInitiated},
		dbmodels.RecordingStatusError)
	if err != nil {
		log.WithError(err).Errorln("failed to persist ERROR transition")
		return
	}
	recording.Status = dbmodels.RecordingStatusError
}

func (m *RecorderModel) handleStopFailure(recording *dbmodels.Recording, log *logrus.Entry) {
	attempts, err := m.ds.IncrementStopAttempts(recording.RecordID)
	if err != nil {
		log.WithError(err).Errorln("failed to count stop attempt")
		return
	}

	maxAttempts := m.app.RecorderInfo.MaxStopAttempts
	if maxAttempts <= 0 || attempts < maxAttempts {
		return
	}

	log.WithField("attempts", attempts).Warnln("stop attempt bound reached, marking recording failed")
	ok, err := m.ds.UpdateRecordingStatus(recording.RecordID,
		[]dbmodels.RecordingStatus{dbmodels.RecordingStatusActive},
		dbmodels.RecordingStatusError)
	if err != nil {
		log.WithError(err).Errorln("failed to persist ERROR transition")
		return
	}
	if ok {
		recording.Status = dbmodels.RecordingStatusError
	}
}
