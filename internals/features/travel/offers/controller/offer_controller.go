package controller

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	offerDTO "travelku_backend/internals/features/travel/offers/dto"
	offerModel "travelku_backend/internals/features/travel/offers/model"
	helper "travelku_backend/internals/helpers"
	helperOSS "travelku_backend/internals/helpers/oss"
)

const offerFolder = "offer-images"

type OfferController struct {
	DB *gorm.DB

	// Blob overrides the env-built storage client (tests inject a fake here)
	Blob helperOSS.BlobService
}

func NewOfferController(db *gorm.DB) *OfferController {
	return &OfferController{DB: db}
}

func (h *OfferController) blobService() (helperOSS.BlobService, error) {
	if h.Blob != nil {
		return h.Blob, nil
	}
	return helperOSS.NewOSSBlobServiceFromEnv("")
}

var validateOffer = validator.New()

func parseOfferForm(c *fiber.Ctx) (offerDTO.CreateOfferRequest, error) {
	var req offerDTO.CreateOfferRequest
	req.OfferTitle = strings.TrimSpace(c.FormValue("offer_title"))
	req.OfferDescription = strings.TrimSpace(c.FormValue("offer_description"))
	req.OfferExpiresAt = strings.TrimSpace(c.FormValue("offer_expires_at"))
	if v := strings.TrimSpace(c.FormValue("offer_discount_percent")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, "offer_discount_percent must be a number")
		}
		req.OfferDiscountPercent = n
	}
	for _, p := range c.Context().PostArgs().PeekMulti("offer_perks[]") {
		if s := strings.TrimSpace(string(p)); s != "" {
			req.OfferPerks = append(req.OfferPerks, s)
		}
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, p := range form.Value["offer_perks[]"] {
			if s := strings.TrimSpace(p); s != "" {
				req.OfferPerks = append(req.OfferPerks, s)
			}
		}
	}
	return req, nil
}

// POST /api/a/offers
func (h *OfferController) Create(c *fiber.Ctx) error {
	req, err := parseOfferForm(c)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validateOffer.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var blob helperOSS.BlobService
	imageURL := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		blob, err = h.blobService()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "OSS not ready")
		}
		imageURL, err = blob.UploadImage(c.UserContext(), offerFolder, fh)
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return helper.JsonError(c, fe.Code, fe.Message)
			}
			return helper.JsonError(c, fiber.StatusBadGateway, "Upload failed")
		}
	}

	m, err := req.ToModel(imageURL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid date format")
	}
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		if imageURL != "" && blob != nil {
			helperOSS.CleanupURLs(c.UserContext(), blob, []string{imageURL})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save offer")
	}
	return helper.JsonCreated(c, "Offer created", offerDTO.NewOfferResponse(m))
}

// PUT /api/a/offers/:id — full replace of the editable fields
func (h *OfferController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid offer id")
	}

	var existing offerModel.OfferModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("offer_id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Offer not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offer")
	}

	req, err := parseOfferForm(c)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validateOffer.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var blob helperOSS.BlobService
	imageURL := existing.OfferImage
	oldImage, newImage := "", ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		blob, err = h.blobService()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "OSS not ready")
		}
		imageURL, err = blob.UploadImage(c.UserContext(), offerFolder, fh)
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return helper.JsonError(c, fe.Code, fe.Message)
			}
			return helper.JsonError(c, fiber.StatusBadGateway, "Upload failed")
		}
		oldImage = existing.OfferImage
		newImage = imageURL
	}

	m, err := req.ToModel(imageURL)
	if err != nil {
		if newImage != "" && blob != nil {
			helperOSS.CleanupURLs(c.UserContext(), blob, []string{newImage})
		}
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid date format")
	}
	m.OfferID = id
	if err := h.applyUpdate(c.UserContext(), blob, id, m, newImage); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update offer")
	}

	if oldImage != "" && oldImage != imageURL && blob != nil {
		go func(b helperOSS.BlobService, url string) {
			cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			helperOSS.CleanupURLs(cctx, b, []string{url})
		}(blob, oldImage)
	}
	return helper.JsonUpdated(c, "Offer updated", offerDTO.NewOfferResponse(m))
}

// applyUpdate persists the full-replace write. A freshly uploaded image has
// no owning row yet when the write fails, so it is removed again before the
// error surfaces.
func (h *OfferController) applyUpdate(ctx context.Context, blob helperOSS.BlobService, id uuid.UUID, m *offerModel.OfferModel, newImage string) error {
	if err := h.DB.WithContext(ctx).Model(&offerModel.OfferModel{}).
		Where("offer_id = ?", id).
		Select("*").Omit("offer_id", "offer_created_at").
		Updates(m).Error; err != nil {
		if newImage != "" && blob != nil {
			helperOSS.CleanupURLs(ctx, blob, []string{newImage})
		}
		return err
	}
	return nil
}

// DELETE /api/a/offers/:id
func (h *OfferController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid offer id")
	}

	var existing offerModel.OfferModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("offer_id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Offer not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offer")
	}

	if err := h.DB.WithContext(c.UserContext()).
		Where("offer_id = ?", id).Delete(&offerModel.OfferModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete offer")
	}

	if existing.OfferImage != "" {
		if blob, err := h.blobService(); err == nil {
			go func(b helperOSS.BlobService, url string) {
				cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				helperOSS.CleanupURLs(cctx, b, []string{url})
			}(blob, existing.OfferImage)
		}
	}
	return helper.JsonDeleted(c, "Offer deleted", fiber.Map{"offer_id": id})
}

// GET /api/a/offers/:id
func (h *OfferController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid offer id")
	}
	var row offerModel.OfferModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("offer_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Offer not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offer")
	}
	return helper.JsonOK(c, "", offerDTO.NewOfferResponse(&row))
}

// GET /api/public/offers — hides expired offers
func (h *OfferController) List(c *fiber.Ctx) error {
	var rows []offerModel.OfferModel
	q := h.DB.WithContext(c.UserContext()).
		Where("offer_expires_at IS NULL OR offer_expires_at >= ?", time.Now().Format("2006-01-02")).
		Order("offer_created_at DESC")
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list offers")
	}
	return helper.JsonList(c, "", offerDTO.NewOfferResponses(rows), nil)
}

// GET /api/a/offers — admin sees everything, expired included
func (h *OfferController) ListAll(c *fiber.Ctx) error {
	var rows []offerModel.OfferModel
	if err := h.DB.WithContext(c.UserContext()).
		Order("offer_created_at DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list offers")
	}
	return helper.JsonList(c, "", offerDTO.NewOfferResponses(rows), nil)
}
