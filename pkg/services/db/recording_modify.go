package dbservice

import (
	"errors"

	"github.com/meethub/meethub-server/pkg/dbmodels"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateActiveRecording is returned when a room already has a
// recording in INITIATED or ACTIVE status.
var ErrDuplicateActiveRecording = errors.New("an active recording already exists for this room")

// CreateRecording inserts a recording in INITIATED status. The check for an
// existing INITIATED/ACTIVE recording runs inside a transaction with a
// locking read, so concurrent creation attempts for the same room serialize
// here.
func (s *DatabaseService) CreateRecording(info *dbmodels.Recording) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing dbmodels.Recording
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND status IN ?", info.RoomID, []dbmodels.RecordingStatus{
				dbmodels.RecordingStatusInitiated,
				dbmodels.RecordingStatusActive,
			}).Take(&existing).Error

		switch {
		case err == nil:
			return ErrDuplicateActiveRecording
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		info.Status = dbmodels.RecordingStatusInitiated
		return tx.Create(info).Error
	})
}

// UpdateRecordingStatus performs a compare-and-set on the status column.
// It reports false when the recording was not in one of the expected prior
// statuses, which is how concurrent duplicate transitions lose.
func (s *DatabaseService) UpdateRecordingStatus(recordID string, from []dbmodels.RecordingStatus, to dbmodels.RecordingStatus) (bool, error) {
	result := s.db.Model(&dbmodels.Recording{}).
		Where("record_id = ? AND status IN ?", recordID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkRecordingActive transitions INITIATED to ACTIVE and stores the worker's
// job reference in the same conditional update.
func (s *DatabaseService) MarkRecordingActive(recordID, jobRef string) (bool, error) {
	result := s.db.Model(&dbmodels.Recording{}).
		Where("record_id = ? AND status = ?", recordID, dbmodels.RecordingStatusInitiated).
		Updates(map[string]interface{}{
			"status":         dbmodels.RecordingStatusActive,
			"worker_job_ref": jobRef,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkRecordingSaved claims a still-savable recording for the storage
// pipeline, recording where the artifact landed. The conditional update is
// what makes duplicate event deliveries lose.
func (s *DatabaseService) MarkRecordingSaved(recordID string, bucket, filePath string) (bool, error) {
	result := s.db.Model(&dbmodels.Recording{}).
		Where("record_id = ? AND status IN ?", recordID, []dbmodels.RecordingStatus{
			dbmodels.RecordingStatusInitiated,
			dbmodels.RecordingStatusActive,
		}).
		Updates(map[string]interface{}{
			"status":    dbmodels.RecordingStatusSaved,
			"bucket":    bucket,
			"file_path": filePath,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// IncrementStopAttempts bumps the failed stop counter and returns the new
// value.
func (s *DatabaseService) IncrementStopAttempts(recordID string) (int, error) {
	result := s.db.Model(&dbmodels.Recording{}).
		Where("record_id = ?", recordID).
		UpdateColumn("stop_attempts", gorm.Expr("stop_attempts + 1"))
	if result.Error != nil {
		return 0, result.Error
	}

	info, err := s.GetRecording(recordID)
	if err != nil || info == nil {
		return 0, err
	}

	return info.StopAttempts, nil
}

func (s *DatabaseService) DeleteRecording(recordID string) (int64, error) {
	cond := &dbmodels.Recording{
		RecordID: recordID,
	}

	result := s.db.Where(cond).Delete(&dbmodels.Recording{})
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return 0, nil
	case result.Error != nil:
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
