package model

import (
	"time"

	"github.com/google/uuid"
)

// One day of a trip's itinerary. The set is always replaced wholesale when
// the trip is updated, never patched entry by entry.
type TripTimelineModel struct {
	TripTimelineID     uuid.UUID `gorm:"column:trip_timeline_id;type:uuid;default:gen_random_uuid();primaryKey"`
	TripTimelineTripID uuid.UUID `gorm:"column:trip_timeline_trip_id;type:uuid;not null;index"`

	TripTimelineTitle       string  `gorm:"column:trip_timeline_title;type:varchar(200);not null"`
	TripTimelineDescription string  `gorm:"column:trip_timeline_description;type:text"`
	TripTimelineImage       *string `gorm:"column:trip_timeline_image;type:text"`

	TripTimelineDate time.Time `gorm:"column:trip_timeline_date;type:date;not null"`

	// 1-based, contiguous, equals the position in the submitted array
	TripTimelineSortOrder int `gorm:"column:trip_timeline_sort_order;type:int;not null"`

	TripTimelineCreatedAt time.Time `gorm:"column:trip_timeline_created_at;type:timestamptz;not null;autoCreateTime"`
}

func (TripTimelineModel) TableName() string {
	return "trip_timelines"
}
