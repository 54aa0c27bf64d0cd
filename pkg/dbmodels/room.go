package dbmodels

import (
	"time"

	"github.com/meethub/meethub-server/pkg/config"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Room struct {
	ID       string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Slug     string    `gorm:"column:slug;type:varchar(100);not null;uniqueIndex:idx_slug"`
	Name     string    `gorm:"column:name;type:varchar(255);not null"`
	OwnerID  string    `gorm:"column:owner_id;type:varchar(64);not null"`
	IsPublic bool      `gorm:"column:is_public;type:tinyint(1);not null;default:0"`
	Created  time.Time `gorm:"column:created;type:datetime;not null;autoCreateTime"`
	Modified time.Time `gorm:"column:modified;type:datetime;not null;autoUpdateTime"`
}

func (t *Room) TableName() string {
	return config.FormatDBTable("rooms")
}

type RoomAccess struct {
	ID      uint64    `gorm:"column:id;type:int(11);primaryKey;autoIncrement"`
	RoomID  string    `gorm:"column:room_id;type:varchar(36);not null;index:idx_room_id"`
	UserID  string    `gorm:"column:user_id;type:varchar(64);not null"`
	Role    string    `gorm:"column:role;type:varchar(16);not null"`
	Created time.Time `gorm:"column:created;type:datetime;not null;autoCreateTime"`

	Room Room `gorm:"foreignKey:room_id;references:id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (t *RoomAccess) TableName() string {
	return config.FormatDBTable("room_accesses")
}
