package dto

import (
	"time"

	"github.com/google/uuid"

	model "travelku_backend/internals/features/travel/featured/model"
)

type CreateFeaturedRequest struct {
	FeaturedTripID uuid.UUID `json:"featured_trip_id" validate:"required"`
	FeaturedCTA    string    `json:"featured_cta" validate:"required,min=2,max=120"`
}

func (r CreateFeaturedRequest) ToModel(imageURL string) *model.FeaturedModel {
	return &model.FeaturedModel{
		FeaturedTripID: r.FeaturedTripID,
		FeaturedImage:  imageURL,
		FeaturedCTA:    r.FeaturedCTA,
	}
}

type UpdateFeaturedRequest struct {
	FeaturedTripID *uuid.UUID `json:"featured_trip_id" validate:"omitempty"`
	FeaturedCTA    *string    `json:"featured_cta" validate:"omitempty,min=2,max=120"`
}

type FeaturedResponse struct {
	FeaturedID        uuid.UUID `json:"featured_id"`
	FeaturedTripID    uuid.UUID `json:"featured_trip_id"`
	FeaturedImage     string    `json:"featured_image"`
	FeaturedCTA       string    `json:"featured_cta"`
	FeaturedCreatedAt time.Time `json:"featured_created_at"`
}

func NewFeaturedResponse(m *model.FeaturedModel) *FeaturedResponse {
	if m == nil {
		return nil
	}
	return &FeaturedResponse{
		FeaturedID:        m.FeaturedID,
		FeaturedTripID:    m.FeaturedTripID,
		FeaturedImage:     m.FeaturedImage,
		FeaturedCTA:       m.FeaturedCTA,
		FeaturedCreatedAt: m.FeaturedCreatedAt,
	}
}

func NewFeaturedResponses(ms []model.FeaturedModel) []*FeaturedResponse {
	out := make([]*FeaturedResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewFeaturedResponse(&ms[i]))
	}
	return out
}
