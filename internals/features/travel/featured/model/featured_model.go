package model

import (
	"time"

	"github.com/google/uuid"
)

// A promotional banner linking to one trip. The banner owns its image object
// in storage; the trip reference is resolvable but non-owning.
type FeaturedModel struct {
	FeaturedID     uuid.UUID `gorm:"column:featured_id;type:uuid;default:gen_random_uuid();primaryKey"`
	FeaturedTripID uuid.UUID `gorm:"column:featured_trip_id;type:uuid;not null;index"`

	FeaturedImage string `gorm:"column:featured_image;type:text;not null"`
	FeaturedCTA   string `gorm:"column:featured_cta;type:varchar(120);not null"`

	FeaturedCreatedAt time.Time `gorm:"column:featured_created_at;type:timestamptz;not null;autoCreateTime"`
}

func (FeaturedModel) TableName() string {
	return "featured_banners"
}
