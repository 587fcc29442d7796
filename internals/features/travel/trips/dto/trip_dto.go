package dto

import (
	"time"

	"github.com/google/uuid"

	model "travelku_backend/internals/features/travel/trips/model"
)

/* ===================== SUBMISSION PAYLOAD ===================== */

// TimelineEntryInput is one day of the itinerary as submitted by the admin.
// timeline_image carries the previous public URL when the admin keeps a day's
// image on update; new uploads arrive as multipart files, not here.
type TimelineEntryInput struct {
	TimelineTitle       string  `json:"timeline_title" validate:"required,min=1,max=200"`
	TimelineDescription string  `json:"timeline_description" validate:"omitempty"`
	TimelineImage       *string `json:"timeline_image" validate:"omitempty,url"`
}

// TripSubmission is the JSON payload embedded in the multipart form
// (program_data field). Dates are strings (YYYY-MM-DD) so the service can
// distinguish "blank → derive" from "present → parse and check".
type TripSubmission struct {
	TripTitle       string  `json:"trip_title" validate:"required,min=3,max=200"`
	TripMeta        *string `json:"trip_meta" validate:"omitempty,max=500"`
	TripDescription string  `json:"trip_description" validate:"required,min=3"`

	TripOrigin      string `json:"trip_origin" validate:"required,min=2,max=120"`
	TripDestination string `json:"trip_destination" validate:"required,min=2,max=120"`
	TripDays        int    `json:"trip_days" validate:"required,min=1"`

	TripPrice            float64  `json:"trip_price" validate:"min=0"`
	TripSingleSupplement *float64 `json:"trip_single_supplement" validate:"omitempty,min=0"`

	TripFromDate string `json:"trip_from_date" validate:"required"`
	TripToDate   string `json:"trip_to_date" validate:"omitempty"`

	TripDisplay *bool `json:"trip_display" validate:"omitempty"`

	TripPriceIncludes string `json:"trip_price_includes" validate:"omitempty"`
	TripConditions    string `json:"trip_conditions" validate:"omitempty"`

	Timeline []TimelineEntryInput `json:"timeline" validate:"max=50,dive"`
}

// ToModel builds the trip row. Images and resolved dates are set by the
// reconciliation service, not here.
func (r TripSubmission) ToModel() *model.TripModel {
	m := &model.TripModel{
		TripTitle:            r.TripTitle,
		TripMeta:             r.TripMeta,
		TripDescription:      r.TripDescription,
		TripOrigin:           r.TripOrigin,
		TripDestination:      r.TripDestination,
		TripDays:             r.TripDays,
		TripPrice:            r.TripPrice,
		TripSingleSupplement: r.TripSingleSupplement,
		TripPriceIncludes:    r.TripPriceIncludes,
		TripConditions:       r.TripConditions,
		TripDisplay:          true,
	}
	if r.TripDisplay != nil {
		m.TripDisplay = *r.TripDisplay
	}
	return m
}

/* ===================== QUERIES (list) ===================== */

type ListTripsQuery struct {
	Destination *string `query:"destination"`
	DisplayOnly bool    `query:"-"`
}

/* ===================== RESPONSES ===================== */

type TimelineEntryResponse struct {
	TripTimelineID        uuid.UUID `json:"trip_timeline_id"`
	TripTimelineTitle     string    `json:"trip_timeline_title"`
	TripTimelineDesc      string    `json:"trip_timeline_description"`
	TripTimelineImage     *string   `json:"trip_timeline_image,omitempty"`
	TripTimelineDate      string    `json:"trip_timeline_date"`
	TripTimelineSortOrder int       `json:"trip_timeline_sort_order"`
}

type TripResponse struct {
	TripID uuid.UUID `json:"trip_id"`

	TripTitle       string  `json:"trip_title"`
	TripMeta        *string `json:"trip_meta,omitempty"`
	TripDescription string  `json:"trip_description"`

	TripImages []string `json:"trip_images"`

	TripOrigin      string `json:"trip_origin"`
	TripDestination string `json:"trip_destination"`
	TripDays        int    `json:"trip_days"`

	TripPrice            float64  `json:"trip_price"`
	TripSingleSupplement *float64 `json:"trip_single_supplement,omitempty"`

	TripFromDate string `json:"trip_from_date"`
	TripToDate   string `json:"trip_to_date"`

	TripDisplay bool `json:"trip_display"`

	TripPriceIncludes string `json:"trip_price_includes,omitempty"`
	TripConditions    string `json:"trip_conditions,omitempty"`

	TripCreatedAt time.Time `json:"trip_created_at"`
	TripUpdatedAt time.Time `json:"trip_updated_at"`

	Timeline []TimelineEntryResponse `json:"timeline"`
}

func NewTripResponse(m *model.TripModel) *TripResponse {
	if m == nil {
		return nil
	}
	resp := &TripResponse{
		TripID:               m.TripID,
		TripTitle:            m.TripTitle,
		TripMeta:             m.TripMeta,
		TripDescription:      m.TripDescription,
		TripImages:           append([]string{}, m.TripImages...),
		TripOrigin:           m.TripOrigin,
		TripDestination:      m.TripDestination,
		TripDays:             m.TripDays,
		TripPrice:            m.TripPrice,
		TripSingleSupplement: m.TripSingleSupplement,
		TripFromDate:         m.TripFromDate.Format("2006-01-02"),
		TripToDate:           m.TripToDate.Format("2006-01-02"),
		TripDisplay:          m.TripDisplay,
		TripPriceIncludes:    m.TripPriceIncludes,
		TripConditions:       m.TripConditions,
		TripCreatedAt:        m.TripCreatedAt,
		TripUpdatedAt:        m.TripUpdatedAt,
		Timeline:             make([]TimelineEntryResponse, 0, len(m.TripTimeline)),
	}
	for _, e := range m.TripTimeline {
		resp.Timeline = append(resp.Timeline, TimelineEntryResponse{
			TripTimelineID:        e.TripTimelineID,
			TripTimelineTitle:     e.TripTimelineTitle,
			TripTimelineDesc:      e.TripTimelineDescription,
			TripTimelineImage:     e.TripTimelineImage,
			TripTimelineDate:      e.TripTimelineDate.Format("2006-01-02"),
			TripTimelineSortOrder: e.TripTimelineSortOrder,
		})
	}
	return resp
}

func NewTripResponses(ms []model.TripModel) []*TripResponse {
	out := make([]*TripResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewTripResponse(&ms[i]))
	}
	return out
}
