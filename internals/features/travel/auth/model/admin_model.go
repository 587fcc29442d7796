package model

import (
	"time"

	"github.com/google/uuid"
)

type AdminModel struct {
	AdminID uuid.UUID `gorm:"column:admin_id;type:uuid;default:gen_random_uuid();primaryKey"`

	AdminUsername string `gorm:"column:admin_username;type:varchar(64);not null;uniqueIndex"`
	// bcrypt hash, never the raw password
	AdminPassword string `gorm:"column:admin_password;type:varchar(100);not null"`

	AdminIsActive bool `gorm:"column:admin_is_active;not null;default:true"`

	AdminLastLoginAt *time.Time `gorm:"column:admin_last_login_at;type:timestamptz"`

	AdminCreatedAt time.Time `gorm:"column:admin_created_at;type:timestamptz;not null;autoCreateTime"`
	AdminUpdatedAt time.Time `gorm:"column:admin_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (AdminModel) TableName() string {
	return "admins"
}
