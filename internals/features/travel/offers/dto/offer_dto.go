package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "travelku_backend/internals/features/travel/offers/model"
)

type CreateOfferRequest struct {
	OfferTitle           string   `json:"offer_title" validate:"required,min=3,max=200"`
	OfferDescription     string   `json:"offer_description" validate:"omitempty"`
	OfferDiscountPercent int      `json:"offer_discount_percent" validate:"min=0,max=90"`
	OfferPerks           []string `json:"offer_perks" validate:"omitempty,max=20,dive,min=1"`
	OfferExpiresAt       string   `json:"offer_expires_at" validate:"omitempty,datetime=2006-01-02"`
}

func (r CreateOfferRequest) ToModel(imageURL string) (*model.OfferModel, error) {
	m := &model.OfferModel{
		OfferTitle:           strings.TrimSpace(r.OfferTitle),
		OfferDescription:     strings.TrimSpace(r.OfferDescription),
		OfferImage:           imageURL,
		OfferDiscountPercent: r.OfferDiscountPercent,
	}
	if len(r.OfferPerks) > 0 {
		raw, err := json.Marshal(r.OfferPerks)
		if err != nil {
			return nil, err
		}
		m.OfferPerks = datatypes.JSON(raw)
	}
	if ds := strings.TrimSpace(r.OfferExpiresAt); ds != "" {
		d, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return nil, err
		}
		m.OfferExpiresAt = &d
	}
	return m, nil
}

type OfferResponse struct {
	OfferID              uuid.UUID `json:"offer_id"`
	OfferTitle           string    `json:"offer_title"`
	OfferDescription     string    `json:"offer_description,omitempty"`
	OfferImage           string    `json:"offer_image,omitempty"`
	OfferDiscountPercent int       `json:"offer_discount_percent"`
	OfferPerks           []string  `json:"offer_perks,omitempty"`
	OfferExpiresAt       *string   `json:"offer_expires_at,omitempty"`
	OfferCreatedAt       time.Time `json:"offer_created_at"`
	OfferUpdatedAt       time.Time `json:"offer_updated_at"`
}

func NewOfferResponse(m *model.OfferModel) *OfferResponse {
	if m == nil {
		return nil
	}
	resp := &OfferResponse{
		OfferID:              m.OfferID,
		OfferTitle:           m.OfferTitle,
		OfferDescription:     m.OfferDescription,
		OfferImage:           m.OfferImage,
		OfferDiscountPercent: m.OfferDiscountPercent,
		OfferCreatedAt:       m.OfferCreatedAt,
		OfferUpdatedAt:       m.OfferUpdatedAt,
	}
	if len(m.OfferPerks) > 0 {
		_ = json.Unmarshal(m.OfferPerks, &resp.OfferPerks)
	}
	if m.OfferExpiresAt != nil {
		s := m.OfferExpiresAt.Format("2006-01-02")
		resp.OfferExpiresAt = &s
	}
	return resp
}

func NewOfferResponses(ms []model.OfferModel) []*OfferResponse {
	out := make([]*OfferResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewOfferResponse(&ms[i]))
	}
	return out
}
