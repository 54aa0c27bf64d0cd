package models

import (
	"context"
	"errors"
	"testing"

	"github.com/meethub/meethub-server/pkg/dbmodels"
)

func newRecordingFixture(worker *fakeWorker) (*RecordingModel, *fakeRecordingStore) {
	cnf := newTestConfig()

	registry := NewWorkerRegistry()
	registry.Register("audio", worker)

	ds := newFakeRecordingStore()
	logger := newTestLogger()
	recorder := NewRecorderModel(cnf, ds, registry, logger)
	return NewRecordingModel(cnf, ds, recorder, nil, logger), ds
}

func TestRecordingModel_StartAndDuplicate(t *testing.T) {
	m, _ := newRecordingFixture(&fakeWorker{jobRef: "egress-1"})
	room := &dbmodels.Room{ID: "room-1", Slug: "room-one"}

	recording, err := m.StartRecording(context.Background(), room, "audio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recording.Status != dbmodels.RecordingStatusActive {
		t.Errorf("expected ACTIVE, got %s", recording.Status)
	}

	// the room already has an active recording, any mode is rejected
	_, err = m.StartRecording(context.Background(), room, "audio")
	if !errors.Is(err, ErrDuplicateActiveRecording) {
		t.Errorf("expected ErrDuplicateActiveRecording, got %v", err)
	}
}

func TestRecordingModel_StartUnknownMode(t *testing.T) {
	m, _ := newRecordingFixture(&fakeWorker{})
	room := &dbmodels.Room{ID: "room-1"}

	if _, err := m.StartRecording(context.Background(), room, "hologram"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestRecordingModel_StopWithoutActive(t *testing.T) {
	m, _ := newRecordingFixture(&fakeWorker{})

	_, err := m.StopRecording(context.Background(), "room-1")
	if !errors.Is(err, ErrNoActiveRecording) {
		t.Errorf("expected ErrNoActiveRecording, got %v", err)
	}
}

func TestRecordingModel_StopActive(t *testing.T) {
	worker := &fakeWorker{jobRef: "egress-1"}
	m, _ := newRecordingFixture(worker)
	room := &dbmodels.Room{ID: "room-1"}

	if _, err := m.StartRecording(context.Background(), room, "audio"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := m.StopRecording(context.Background(), room.ID); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if worker.stopped != 1 {
		t.Errorf("expected one backend stop call, got %d", worker.stopped)
	}
}

func TestRecordingModel_DeleteUnknown(t *testing.T) {
	m, _ := newRecordingFixture(&fakeWorker{})

	if err := m.DeleteRecording("missing"); !errors.Is(err, ErrRecordingNotFound) {
		t.Errorf("expected ErrRecordingNotFound, got %v", err)
	}
}
