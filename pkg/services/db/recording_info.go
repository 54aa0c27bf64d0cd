package dbservice

import (
	"errors"

	"github.com/meethub/meethub-server/pkg/dbmodels"
	"gorm.io/gorm"
)

func (s *DatabaseService) GetRecording(recordID string) (*dbmodels.Recording, error) {
	info := new(dbmodels.Recording)
	cond := &dbmodels.Recording{
		RecordID: recordID,
	}

	result := s.db.Where(cond).Take(info)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}

	return info, nil
}

// GetActiveRecording returns the room's recording in ACTIVE status, nil when
// none is running.
func (s *DatabaseService) GetActiveRecording(roomID string) (*dbmodels.Recording, error) {
	info := new(dbmodels.Recording)

	result := s.db.Where("room_id = ? AND status = ?", roomID, dbmodels.RecordingStatusActive).Take(info)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}

	return info, nil
}

func (s *DatabaseService) GetRecordings(roomIDs []string, offset, limit uint64, direction *string) ([]dbmodels.Recording, int64, error) {
	var recordings []dbmodels.Recording
	var total int64

	d := s.db.Model(&dbmodels.Recording{})
	if len(roomIDs) > 0 {
		d.Where("room_id IN ?", roomIDs)
	}

	if err := d.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit == 0 {
		limit = 20
	}

	orderBy := "DESC"
	if direction != nil && *direction == "ASC" {
		orderBy = "ASC"
	}

	result := d.Offset(int(offset)).Limit(int(limit)).Order("id " + orderBy).Find(&recordings)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, 0, result.Error
	}

	return recordings, total, nil
}
