package dbservice

import (
	"errors"

	"github.com/meethub/meethub-server/pkg/dbmodels"
	"gorm.io/gorm"
)

// CreateRoom inserts the room together with the owner's access grant.
// The unique index on slug rejects duplicate slugs.
func (s *DatabaseService) CreateRoom(room *dbmodels.Room) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		access := &dbmodels.RoomAccess{
			RoomID: room.ID,
			UserID: room.OwnerID,
			Role:   dbmodels.RoleOwner,
		}
		return tx.Create(access).Error
	})
}

func (s *DatabaseService) GetRoomByID(roomID string) (*dbmodels.Room, error) {
	info := new(dbmodels.Room)
	cond := &dbmodels.Room{
		ID: roomID,
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

func (s *DatabaseService) GetRoomBySlug(slug string) (*dbmodels.Room, error) {
	info := new(dbmodels.Room)
	cond := &dbmodels.Room{
		Slug: slug,
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

func (s *DatabaseService) GetRoomAccesses(roomID string) ([]dbmodels.RoomAccess, error) {
	var accesses []dbmodels.RoomAccess
	result := s.db.Where("room_id = ?", roomID).Find(&accesses)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	return accesses, nil
}
