package dbmodels

import "testing"

func TestRecordingStatus_IsSavable(t *testing.T) {
	savable := []RecordingStatus{
		RecordingStatusInitiated,
		RecordingStatusActive,
	}
	notSavable := []RecordingStatus{
		RecordingStatusError,
		RecordingStatusSaved,
		RecordingStatusNotificationSucceeded,
	}

	for _, s := range savable {
		if !s.IsSavable() {
			t.Errorf("status %s should be savable", s)
		}
	}
	for _, s := range notSavable {
		if s.IsSavable() {
			t.Errorf("status %s should not be savable", s)
		}
	}
}
