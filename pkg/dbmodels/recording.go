package dbmodels

import (
	"database/sql"
	"time"

	"github.com/meethub/meethub-server/pkg/config"
)

type RecordingStatus string

const (
	RecordingStatusInitiated             RecordingStatus = "INITIATED"
	RecordingStatusActive                RecordingStatus = "ACTIVE"
	RecordingStatusError                 RecordingStatus = "ERROR"
	RecordingStatusSaved                 RecordingStatus = "SAVED"
	RecordingStatusNotificationSucceeded RecordingStatus = "NOTIFICATION_SUCCEEDED"
)

// IsSavable reports whether a storage event may still finalize a recording
// in this status. Error and already-finalized recordings are not savable.
func (s RecordingStatus) IsSavable() bool {
	switch s {
	case RecordingStatusError, RecordingStatusSaved, RecordingStatusNotificationSucceeded:
		return false
	}
	return true
}

type Recording struct {
	ID           uint64          `gorm:"column:id;type:int(11);primaryKey;autoIncrement"`
	RecordID     string          `gorm:"column:record_id;type:varchar(64);not null;uniqueIndex:idx_record_id"`
	RoomID       string          `gorm:"column:room_id;type:varchar(36);not null;index:idx_room_id"`
	Mode         string          `gorm:"column:mode;type:varchar(16);not null"`
	Status       RecordingStatus `gorm:"column:status;type:varchar(32);not null;default:'INITIATED'"`
	WorkerJobRef sql.NullString  `gorm:"column:worker_job_ref;type:varchar(255)"`
	Bucket       sql.NullString  `gorm:"column:bucket;type:varchar(64)"`
	FilePath     sql.NullString  `gorm:"column:file_path;type:varchar(255)"`
	StopAttempts int             `gorm:"column:stop_attempts;type:int(11);not null;default:0"`
	CreationTime int64           `gorm:"column:creation_time;type:int(10);not null;autoCreateTime"`
	Created      time.Time       `gorm:"column:created;type:datetime;not null;autoCreateTime"`
	Modified     time.Time       `gorm:"column:modified;type:datetime;not null;autoUpdateTime"`

	Room Room `gorm:"foreignKey:room_id;references:id;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (t *Recording) TableName() string {
	return config.FormatDBTable("recordings")
}
