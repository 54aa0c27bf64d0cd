package helpers

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/meethub/meethub-server/pkg/models"
)

// WebhookNotifier fans a recording-saved notification out to the configured
// subscriber urls. It is strictly best effort: every failure is logged and
// absorbed, callers only learn whether all subscribers acknowledged.
type WebhookNotifier struct {
	app    *config.AppConfig
	pool   *workerpool.WorkerPool
	client *http.Client
	logger *logrus.Entry
}

type recordingSavedPayload struct {
	Event    string `json:"event"`
	RecordID string `json:"record_id"`
	RoomID   string `json:"room_id"`
	Mode     string `json:"mode"`
	Bucket   string `json:"bucket"`
	FilePath string `json:"file_path"`
	SavedAt  int64  `json:"saved_at"`
}

func NewWebhookNotifier(app *config.AppConfig, logger *logrus.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		app:  app,
		pool: workerpool.New(app.NotifierInfo.Workers),
		client: &http.Client{
			Timeout: *app.NotifierInfo.RequestTimeout,
		},
		logger: logger.WithField("helper", "webhookNotifier"),
	}
}

// NotifyExternalServices posts the saved recording to every subscriber and
// reports true only when at least one subscriber is configured and all of
// them answered with a 2xx status.
func (w *WebhookNotifier) NotifyExternalServices(ctx context.Context, recording *dbmodels.Recording, event *models.StorageEvent) bool {
	urls := w.app.NotifierInfo.SubscriberUrls
	if len(urls) == 0 {
		return false
	}

	body, err := json.Marshal(&recordingSavedPayload{
		Event:    "recording_saved",
		RecordID: recording.RecordID,
		RoomID:   recording.RoomID,
		Mode:     recording.Mode,
		Bucket:   event.Bucket,
		FilePath: event.FilePath,
		SavedAt:  time.Now().Unix(),
	})
	if err != nil {
		w.logger.WithError(err).Errorln("could not encode notification payload")
		return false
	}

	var failed int64
	var wg sync.WaitGroup
	for _, url := range urls {
		url := url
		wg.Add(1)
		w.pool.Submit(func() {
			defer wg.Done()
			if err := w.post(ctx, url, body); err != nil {
				atomic.AddInt64(&failed, 1)
				w.logger.WithError(err).WithField("url", url).
					Warnln("subscriber notification failed")
			}
		})
	}
	wg.Wait()

	return atomic.LoadInt64(&failed) == 0
}

func (w *WebhookNotifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &subscriberStatusError{status: res.StatusCode}
	}
	return nil
}

func (w *WebhookNotifier) Stop() {
	w.pool.StopWait()
}

type subscriberStatusError struct {
	status int
}

func (e *subscriberStatusError) Error() string {
	return http.StatusText(e.status)
}
