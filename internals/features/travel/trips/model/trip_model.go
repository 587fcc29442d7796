package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TripModel struct {
	TripID uuid.UUID `gorm:"column:trip_id;type:uuid;default:gen_random_uuid();primaryKey"`

	TripTitle       string  `gorm:"column:trip_title;type:varchar(200);not null"`
	TripMeta        *string `gorm:"column:trip_meta;type:text"`
	TripDescription string  `gorm:"column:trip_description;type:text;not null"`

	// Ordered public URLs of the gallery, submission order preserved
	TripImages pq.StringArray `gorm:"column:trip_images;type:text[]"`

	TripOrigin      string `gorm:"column:trip_origin;type:varchar(120);not null"`
	TripDestination string `gorm:"column:trip_destination;type:varchar(120);not null"`
	TripDays        int    `gorm:"column:trip_days;type:int;not null"`

	TripPrice            float64  `gorm:"column:trip_price;type:numeric(12,2);not null"`
	TripSingleSupplement *float64 `gorm:"column:trip_single_supplement;type:numeric(12,2)"`

	TripFromDate time.Time `gorm:"column:trip_from_date;type:date;not null"`
	TripToDate   time.Time `gorm:"column:trip_to_date;type:date;not null"`

	TripDisplay bool `gorm:"column:trip_display;not null;default:true"`

	TripPriceIncludes string `gorm:"column:trip_price_includes;type:text"`
	TripConditions    string `gorm:"column:trip_conditions;type:text"`

	TripCreatedAt time.Time `gorm:"column:trip_created_at;type:timestamptz;not null;autoCreateTime"`
	TripUpdatedAt time.Time `gorm:"column:trip_updated_at;type:timestamptz;not null;autoUpdateTime"`

	TripTimeline []TripTimelineModel `gorm:"foreignKey:TripTimelineTripID;references:TripID;constraint:OnDelete:CASCADE"`
}

func (TripModel) TableName() string {
	return "trips"
}

// AllImageURLs returns gallery + timeline image URLs (storage cleanup uses it).
func (t *TripModel) AllImageURLs() []string {
	out := make([]string, 0, len(t.TripImages)+len(t.TripTimeline))
	out = append(out, t.TripImages...)
	for _, e := range t.TripTimeline {
		if e.TripTimelineImage != nil && *e.TripTimelineImage != "" {
			out = append(out, *e.TripTimelineImage)
		}
	}
	return out
}
