package models

import (
	"context"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

// StorageEventStore is the persistence surface of event ingestion.
type StorageEventStore interface {
	GetRecording(recordID string) (*dbmodels.Recording, error)
	MarkRecordingSaved(recordID string, bucket, filePath string) (bool, error)
	UpdateRecordingStatus(recordID string, from []dbmodels.RecordingStatus, to dbmodels.RecordingStatus) (bool, error)
}

// NotificationDispatcher is the best-effort fan-out to external subscribers.
// It never fails the pipeline, it only reports whether every subscriber was
// reached.
type NotificationDispatcher interface {
	NotifyExternalServices(ctx context.Context, recording *dbmodels.Recording, event *StorageEvent) bool
}

// StorageEventModel runs the ingestion pipeline for storage completion
// webhooks: parse, resolve, claim, notify, finalize.
type StorageEventModel struct {
	app      *config.AppConfig
	ds       StorageEventStore
	parser   StorageEventParser
	notifier NotificationDispatcher
	logger   *logrus.Entry
}

func NewStorageEventModel(app *config.AppConfig, ds StorageEventStore, parser StorageEventParser, notifier NotificationDispatcher, logger *logrus.Logger) *StorageEventModel {
	return &StorageEventModel{
		app:      app,
		ds:       ds,
		parser:   parser,
		notifier: notifier,
		logger:   logger.WithField("model", "storageEvent"),
	}
}

// HandleIncomingEvent processes one webhook delivery. The savable claim is a
// compare-and-set, so a duplicate delivery loses it and never reaches the
// dispatcher; the losing caller observes ErrRecordingNotSavable.
func (m *StorageEventModel) HandleIncomingEvent(ctx context.Context, payload []byte) (*dbmodels.Recording, error) {
	event, err := m.parser.GetRecordingEvent(payload)
	if err != nil {
		return nil, err
	}

	log := m.logger.WithFields(logrus.Fields{
		"recordId": event.RecordID,
		"bucket":   event.Bucket,
		"filePath": event.FilePath,
	})

	recording, err := m.ds.GetRecording(event.RecordID)
	if err != nil {
		return nil, err
	}
	if recording == nil {
		log.Warnln("storage event names an unknown recording")
		return nil, ErrRecordingNotFound
	}
	if !recording.Status.IsSavable() {
		log.Warnln("storage event for a finalized or failed recording")
		return recording, ErrRecordingNotSavable
	}

	claimed, err := m.ds.MarkRecordingSaved(recording.RecordID, event.Bucket, event.FilePath)
	if err != nil {
		return recording, err
	}
	if !claimed {
		// a concurrent delivery won the claim
		log.Warnln("lost the savable claim to a concurrent event")
		return recording, ErrRecordingNotSavable
	}
	recording.Status = dbmodels.RecordingStatusSaved

	if m.notifier.NotifyExternalServices(ctx, recording, event) {
		ok, err := m.ds.UpdateRecordingStatus(recording.RecordID,
			[]dbmodels.RecordingStatus{dbmodels.RecordingStatusSaved},
			dbmodels.RecordingStatusNotificationSucceeded)
		if err != nil {
			log.WithError(err).Errorln("failed to persist NOTIFICATION_SUCCEEDED transition")
			return recording, nil
		}
		if ok {
			recording.Status = dbmodels.RecordingStatusNotificationSucceeded
		}
	}

	log.WithField("status", recording.Status).Infoln("storage event processed")
	return recording, nil
}
