package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	natsservice "github.com/meethub/meethub-server/pkg/services/nats"
	"github.com/sirupsen/logrus"
)

// RecorderTransport carries tasks to the external recorder bot pool.
type RecorderTransport interface {
	RequestRecorderTask(ctx context.Context, task *natsservice.RecorderTask) (*natsservice.RecorderTaskResult, error)
}

// BotTokenIssuer mints media tokens for recorder bots joining a room.
type BotTokenIssuer interface {
	GenerateHiddenBotToken(roomID, identity string) (string, error)
}

// RecorderWorker hands full video captures to a dedicated recorder bot,
// reached over the recorder channel. One bot answers per task.
type RecorderWorker struct {
	transport RecorderTransport
	tokens    BotTokenIssuer
	logger    *logrus.Entry
}

func NewRecorderWorker(transport RecorderTransport, tokens BotTokenIssuer, logger *logrus.Logger) *RecorderWorker {
	return &RecorderWorker{
		transport: transport,
		tokens:    tokens,
		logger:    logger.WithField("worker", "recorder"),
	}
}

func (w *RecorderWorker) StartRecording(ctx context.Context, recording *dbmodels.Recording) (string, error) {
	log := w.logger.WithField("recordId", recording.RecordID)

	identity := fmt.Sprintf("%s-%s", config.RecorderBot, recording.RecordID)
	token, err := w.tokens.GenerateHiddenBotToken(recording.RoomID, identity)
	if err != nil {
		log.WithError(err).Errorln("failed to mint recorder bot token")
		return "", &RecordingStartError{Mode: recording.Mode, Err: err}
	}

	res, err := w.transport.RequestRecorderTask(ctx, &natsservice.RecorderTask{
		Task:        natsservice.RecorderTaskStartRecording,
		RoomID:      recording.RoomID,
		RecordID:    recording.RecordID,
		AccessToken: token,
	})
	if err != nil {
		log.WithError(err).Errorln("recorder start task failed")
		return "", &RecordingStartError{Mode: recording.Mode, Err: err}
	}
	if !res.Status {
		log.WithField("msg", res.Msg).Errorln("recorder refused start task")
		return "", &RecordingStartError{Mode: recording.Mode, Err: errors.New(res.Msg)}
	}

	jobRef := res.JobRef
	if jobRef == "" {
		jobRef = recording.RecordID
	}

	return jobRef, nil
}

func (w *RecorderWorker) StopRecording(ctx context.Context, recording *dbmodels.Recording) error {
	log := w.logger.WithField("recordId", recording.RecordID)

	res, err := w.transport.RequestRecorderTask(ctx, &natsservice.RecorderTask{
		Task:     natsservice.RecorderTaskStopRecording,
		RoomID:   recording.RoomID,
		RecordID: recording.RecordID,
		JobRef:   recording.WorkerJobRef.String,
	})
	if err != nil {
		log.WithError(err).Errorln("recorder stop task failed")
		return &RecordingStopError{Mode: recording.Mode, Err: err}
	}
	if !res.Status {
		log.WithField("msg", res.Msg).Errorln("recorder refused stop task")
		return &RecordingStopError{Mode: recording.Mode, Err: errors.New(res.Msg)}
	}

	return nil
}
