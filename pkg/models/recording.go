package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	dbservice "github.com/meethub/meethub-server/pkg/services/db"
	"github.com/sirupsen/logrus"
)

// RecordingStore is the persistence surface of the recording lifecycle.
type RecordingStore interface {
	CreateRecording(info *dbmodels.Recording) error
	GetRecording(recordID string) (*dbmodels.Recording, error)
	GetActiveRecording(roomID string) (*dbmodels.Recording, error)
	GetRecordings(roomIDs []string, offset, limit uint64, direction *string) ([]dbmodels.Recording, int64, error)
	DeleteRecording(recordID string) (int64, error)
}

// ArtifactStore hands out time-limited download URLs for stored artifacts.
type ArtifactStore interface {
	PresignDownloadURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error)
}

type RecordingModel struct {
	app      *config.AppConfig
	ds       RecordingStore
	recorder *RecorderModel
	storage  ArtifactStore
	logger   *logrus.Entry
}

func NewRecordingModel(app *config.AppConfig, ds RecordingStore, recorder *RecorderModel, storage ArtifactStore, logger *logrus.Logger) *RecordingModel {
	return &RecordingModel{
		app:      app,
		ds:       ds,
		recorder: recorder,
		storage:  storage,
		logger:   logger.WithField("model", "recording"),
	}
}

// StartRecording creates a recording for the room and hands it to the
// mediator. Creation fails with ErrDuplicateActiveRecording when the room
// already has one in INITIATED or ACTIVE status.
func (m *RecordingModel) StartRecording(ctx context.Context, room *dbmodels.Room, mode string) (*dbmodels.Recording, error) {
	if !m.recorder.registry.Has(mode) {
		return nil, fmt.Errorf("unknown recording mode %q, available: %v", mode, m.recorder.registry.Modes())
	}

	recording := &dbmodels.Recording{
		RecordID: uuid.New().String(),
		RoomID:   room.ID,
		Mode:     mode,
	}

	if err := m.ds.CreateRecording(recording); err != nil {
		if errors.Is(err, dbservice.ErrDuplicateActiveRecording) {
			return nil, ErrDuplicateActiveRecording
		}
		return nil, err
	}

	if err := m.recorder.StartRecording(ctx, recording); err != nil {
		return recording, err
	}

	return recording, nil
}

// StopRecording stops the room's ACTIVE recording. The lookup is done here
// so the mediator can assume its precondition.
func (m *RecordingModel) StopRecording(ctx context.Context, roomID string) (*dbmodels.Recording, error) {
	recording, err := m.ds.GetActiveRecording(roomID)
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrNoActiveRecording
	}

	if err := m.recorder.StopRecording(ctx, recording); err != nil {
		return recording, err
	}

	return recording, nil
}

func (m *RecordingModel) FetchRecordings(roomIDs []string, offset, limit uint64, orderBy string) ([]dbmodels.Recording, int64, error) {
	if limit == 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if orderBy == "" {
		orderBy = "DESC"
	}

	return m.ds.GetRecordings(roomIDs, offset, limit, &orderBy)
}

func (m *RecordingModel) DeleteRecording(recordID string) error {
	deleted, err := m.ds.DeleteRecording(recordID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrRecordingNotFound
	}

	return nil
}

// GetDownloadURL returns a presigned URL for a finalized recording's
// artifact.
func (m *RecordingModel) GetDownloadURL(ctx context.Context, recordID string) (string, error) {
	recording, err := m.ds.GetRecording(recordID)
	if err != nil {
		return "", err
	}
	if recording == nil {
		return "", ErrRecordingNotFound
	}

	if !recording.Bucket.Valid || !recording.FilePath.Valid {
		return "", fmt.Errorf("recording %s has no stored artifact yet", recordID)
	}

	return m.storage.PresignDownloadURL(ctx, recording.Bucket.String, recording.FilePath.String,
		*m.app.StorageInfo.DownloadTokenValidity)
}
