package natsservice

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

const (
	RecorderTaskStartRecording = "start-recording"
	RecorderTaskStopRecording  = "stop-recording"
)

// RecorderTask is the request sent to the recorder bot pool over NATS.
type RecorderTask struct {
	From        string `json:"from"`
	Task        string `json:"task"`
	RoomID      string `json:"room_id"`
	RecordID    string `json:"record_id"`
	JobRef      string `json:"job_ref,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

type RecorderTaskResult struct {
	Status bool   `json:"status"`
	Msg    string `json:"msg"`
	JobRef string `json:"job_ref"`
}

// RequestRecorderTask sends the task to the recorder channel and waits for
// one recorder to answer. A timeout means no recorder picked the task up.
func (s *NatsService) RequestRecorderTask(ctx context.Context, task *RecorderTask) (*RecorderTaskResult, error) {
	task.From = "meethub"

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, *s.app.NatsInfo.Recorder.RequestTimeout)
	defer cancel()

	msg, err := s.nc.RequestWithContext(ctx, s.app.NatsInfo.Recorder.RecorderChannel, payload)
	if err != nil {
		return nil, fmt.Errorf("no response from recorder channel: %w", err)
	}

	res := new(RecorderTaskResult)
	if err := json.Unmarshal(msg.Data, res); err != nil {
		return nil, err
	}

	return res, nil
}
