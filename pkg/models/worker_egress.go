package models

import (
	"context"
	"fmt"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/sirupsen/logrus"
)

// EgressBackend is the slice of the media server's egress API this adapter
// needs.
type EgressBackend interface {
	StartRoomCompositeEgress(ctx context.Context, roomID, filepath string, audioOnly bool) (string, error)
	StopEgress(ctx context.Context, egressID string) error
}

// EgressWorker records a room through the media server's own composite
// egress. Used for audio-only captures, which need no dedicated bot.
type EgressWorker struct {
	lk     EgressBackend
	logger *logrus.Entry
}

func NewEgressWorker(lk EgressBackend, logger *logrus.Logger) *EgressWorker {
	return &EgressWorker{
		lk:     lk,
		logger: logger.WithField("worker", "egress"),
	}
}

func (w *EgressWorker) StartRecording(ctx context.Context, recording *dbmodels.Recording) (string, error) {
	audioOnly := recording.Mode == config.RecordingModeAudio
	ext := "mp4"
	if audioOnly {
		ext = "ogg"
	}
	filepath := fmt.Sprintf("%s/%s/%s.%s", config.RecordingObjectPrefix, recording.RecordID, recording.RecordID, ext)

	egressID, err := w.lk.StartRoomCompositeEgress(ctx, recording.RoomID, filepath, audioOnly)
	if err != nil {
		w.logger.WithError(err).WithField("recordId", recording.RecordID).Errorln("egress start request failed")
		return "", &RecordingStartError{Mode: recording.Mode, Err: err}
	}

	return egressID, nil
}

func (w *EgressWorker) StopRecording(ctx context.Context, recording *dbmodels.Recording) error {
	if !recording.WorkerJobRef.Valid || recording.WorkerJobRef.String == "" {
		return &RecordingStopError{Mode: recording.Mode, Err: fmt.Errorf("recording %s has no egress id", recording.RecordID)}
	}

	if err := w.lk.StopEgress(ctx, recording.WorkerJobRef.String); err != nil {
		w.logger.WithError(err).WithField("recordId", recording.RecordID).Errorln("egress stop request failed")
		return &RecordingStopError{Mode: recording.Mode, Err: err}
	}

	return nil
}
