package models

import (
	"context"
	"errors"
	"testing"

	"github.com/meethub/meethub-server/pkg/dbmodels"
)

func newRecorderFixture(worker *fakeWorker) (*RecorderModel, *fakeRecordingStore) {
	cnf := newTestConfig()
	cnf.RecorderInfo.MaxStopAttempts = 2

	registry := NewWorkerRegistry()
	registry.Register("audio", worker)

	ds := newFakeRecordingStore()
	return NewRecorderModel(cnf, ds, registry, newTestLogger()), ds
}

func TestRecorderModel_StartSuccess(t *testing.T) {
	worker := &fakeWorker{jobRef: "egress-1"}
	m, ds := newRecorderFixture(worker)
	recording := seedRecording(ds, dbmodels.RecordingStatusInitiated)

	if err := m.StartRecording(context.Background(), recording); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recording.Status != dbmodels.RecordingStatusActive {
		t.Errorf("expected ACTIVE, got %s", recording.Status)
	}
	if recording.WorkerJobRef.String != "egress-1" {
		t.Errorf("expected the backend job ref, got %q", recording.WorkerJobRef.String)
	}
	if got := ds.status(recording.RecordID); got != dbmodels.RecordingStatusActive {
		t.Errorf("persisted status should be ACTIVE, got %s", got)
	}
}

func TestRecorderModel_StartFailure(t *testing.T) {
	worker := &fakeWorker{startErr: errors.New("backend unreachable")}
	m, ds := newRecorderFixture(worker)
	recording := seedRecording(ds, dbmodels.RecordingStatusInitiated)

	err := m.StartRecording(context.Background(), recording)
	var startErr *RecordingStartError
	if !errors.As(err, &startErr) {
		t.Fatalf("expected *RecordingStartError, got %v", err)
	}
	if recording.Status != dbmodels.RecordingStatusError {
		t.Errorf("expected ERROR, got %s", recording.Status)
	}
	if got := ds.status(recording.RecordID); got != dbmodels.RecordingStatusError {
		t.Errorf("persisted status should be ERROR, got %s", got)
	}
}

func TestRecorderModel_StartUnknownMode(t *testing.T) {
	m, ds := newRecorderFixture(&fakeWorker{})
	recording := seedRecording(ds, dbmodels.RecordingStatusInitiated)
	recording.Mode = "hologram"

	err := m.StartRecording(context.Background(), recording)
	var startErr *RecordingStartError
	if !errors.As(err, &startErr) {
		t.Fatalf("expected *RecordingStartError, got %v", err)
	}
}

func TestRecorderModel_StopFailureIsRetryable(t *testing.T) {
	worker := &fakeWorker{stopErr: errors.New("backend unreachable")}
	m, ds := newRecorderFixture(worker)
	recording := seedRecording(ds, dbmodels.RecordingStatusActive)

	err := m.StopRecording(context.Background(), recording)
	var stopErr *RecordingStopError
	if !errors.As(err, &stopErr) {
		t.Fatalf("expected *RecordingStopError, got %v", err)
	}
	// first failure stays below the bound of two
	if got := ds.status(recording.RecordID); got != dbmodels.RecordingStatusActive {
		t.Errorf("a failed stop must leave the recording ACTIVE, got %s", got)
	}

	// second failure reaches the bound and forces ERROR
	if err := m.StopRecording(context.Background(), recording); err == nil {
		t.Fatal("expected the stop to fail again")
	}
	if got := ds.status(recording.RecordID); got != dbmodels.RecordingStatusError {
		t.Errorf("expected ERROR after the attempt bound, got %s", got)
	}
}

func TestRecorderModel_StopSuccessLeavesStatus(t *testing.T) {
	worker := &fakeWorker{}
	m, ds := newRecorderFixture(worker)
	recording := seedRecording(ds, dbmodels.RecordingStatusActive)

	if err := m.StopRecording(context.Background(), recording); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// finalization belongs to the storage pipeline
	if got := ds.status(recording.RecordID); got != dbmodels.RecordingStatusActive {
		t.Errorf("a stopped recording stays ACTIVE until the storage event, got %s", got)
	}
}
