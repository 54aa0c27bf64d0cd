package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/meethub/meethub-server/pkg/models"
)

func newNotifier(urls []string) *WebhookNotifier {
	timeout := time.Second * 2
	cnf, _ := config.New(&config.AppConfig{
		NotifierInfo: config.NotifierInfo{
			SubscriberUrls: urls,
			Workers:        2,
			RequestTimeout: &timeout,
		},
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWebhookNotifier(cnf, logger)
}

func testRecording() *dbmodels.Recording {
	return &dbmodels.Recording{
		RecordID: "rec-1",
		RoomID:   "room-1",
		Mode:     "audio",
	}
}

func testEvent() *models.StorageEvent {
	return &models.StorageEvent{
		RecordID: "rec-1",
		Bucket:   "meethub-recordings",
		FileType: "mp4",
		FilePath: "recordings/rec-1/capture.mp4",
	}
}

func TestNotifier_AllSubscribersAcknowledge(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newNotifier([]string{srv.URL, srv.URL})
	defer n.Stop()

	if !n.NotifyExternalServices(context.Background(), testRecording(), testEvent()) {
		t.Error("expected success when every subscriber acknowledges")
	}
	if atomic.LoadInt64(&hits) != 2 {
		t.Errorf("expected 2 deliveries, got %d", hits)
	}
}

func TestNotifier_OneFailureFailsTheBatch(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	n := newNotifier([]string{ok.URL, bad.URL})
	defer n.Stop()

	if n.NotifyExternalServices(context.Background(), testRecording(), testEvent()) {
		t.Error("expected failure when one subscriber rejects")
	}
}

func TestNotifier_UnreachableSubscriber(t *testing.T) {
	n := newNotifier([]string{"http://127.0.0.1:1/hook"})
	defer n.Stop()

	if n.NotifyExternalServices(context.Background(), testRecording(), testEvent()) {
		t.Error("expected failure when the subscriber is unreachable")
	}
}

func TestNotifier_NoSubscribers(t *testing.T) {
	n := newNotifier(nil)
	defer n.Stop()

	if n.NotifyExternalServices(context.Background(), testRecording(), testEvent()) {
		t.Error("zero subscribers can never report success")
	}
}
