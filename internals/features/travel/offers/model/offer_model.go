package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OfferModel struct {
	OfferID uuid.UUID `gorm:"column:offer_id;type:uuid;default:gen_random_uuid();primaryKey"`

	OfferTitle       string `gorm:"column:offer_title;type:varchar(200);not null"`
	OfferDescription string `gorm:"column:offer_description;type:text"`
	OfferImage       string `gorm:"column:offer_image;type:text"`

	OfferDiscountPercent int `gorm:"column:offer_discount_percent;type:int;not null;default:0"`

	// JSON array of perk strings, e.g. ["free breakfast","airport pickup"]
	OfferPerks datatypes.JSON `gorm:"column:offer_perks;type:jsonb"`

	OfferExpiresAt *time.Time `gorm:"column:offer_expires_at;type:date"`

	OfferCreatedAt time.Time `gorm:"column:offer_created_at;type:timestamptz;not null;autoCreateTime"`
	OfferUpdatedAt time.Time `gorm:"column:offer_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (OfferModel) TableName() string {
	return "offers"
}
