package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	featDTO "travelku_backend/internals/features/travel/featured/dto"
	featModel "travelku_backend/internals/features/travel/featured/model"
	tripModel "travelku_backend/internals/features/travel/trips/model"
	helper "travelku_backend/internals/helpers"
	helperOSS "travelku_backend/internals/helpers/oss"
)

const bannerFolder = "featured-banners"

type FeaturedController struct {
	DB *gorm.DB

	// Blob overrides the env-built storage client (tests inject a fake here)
	Blob helperOSS.BlobService
}

func NewFeaturedController(db *gorm.DB) *FeaturedController {
	return &FeaturedController{DB: db}
}

func (h *FeaturedController) blobService() (helperOSS.BlobService, error) {
	if h.Blob != nil {
		return h.Blob, nil
	}
	return helperOSS.NewOSSBlobServiceFromEnv("")
}

var validateFeatured = validator.New()

func (h *FeaturedController) tripExists(ctx context.Context, tripID uuid.UUID) (bool, error) {
	var cnt int64
	err := h.DB.WithContext(ctx).Model(&tripModel.TripModel{}).
		Where("trip_id = ?", tripID).Count(&cnt).Error
	return cnt > 0, err
}

// ===================== CREATE =====================
// POST /api/a/featured — multipart: featured_trip_id, featured_cta, banner file
func (h *FeaturedController) Create(c *fiber.Ctx) error {
	var req featDTO.CreateFeaturedRequest

	tripID, err := uuid.Parse(strings.TrimSpace(c.FormValue("featured_trip_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "featured_trip_id is not a valid uuid")
	}
	req.FeaturedTripID = tripID
	req.FeaturedCTA = strings.TrimSpace(c.FormValue("featured_cta"))

	if err := validateFeatured.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ok, err := h.tripExists(c.UserContext(), req.FeaturedTripID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check trip")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Referenced trip not found")
	}

	fh, err := c.FormFile("banner")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "banner file is required")
	}

	blob, err := h.blobService()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "OSS not ready")
	}
	imageURL, err := blob.UploadImage(c.UserContext(), bannerFolder, fh)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadGateway, "Upload failed")
	}

	m := req.ToModel(imageURL)
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		// orphaned banner, remove it before surfacing the error
		helperOSS.CleanupURLs(c.UserContext(), blob, []string{imageURL})
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save banner")
	}
	return helper.JsonCreated(c, "Banner created", featDTO.NewFeaturedResponse(m))
}

// ===================== UPDATE =====================
// PUT /api/a/featured/:id — fields optional; a new banner file replaces the old
func (h *FeaturedController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid banner id")
	}

	var existing featModel.FeaturedModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("featured_id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Banner not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load banner")
	}

	var req featDTO.UpdateFeaturedRequest
	if v := strings.TrimSpace(c.FormValue("featured_trip_id")); v != "" {
		tripID, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "featured_trip_id is not a valid uuid")
		}
		req.FeaturedTripID = &tripID
	}
	if v := strings.TrimSpace(c.FormValue("featured_cta")); v != "" {
		req.FeaturedCTA = &v
	}
	if err := validateFeatured.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if req.FeaturedTripID != nil {
		ok, err := h.tripExists(c.UserContext(), *req.FeaturedTripID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check trip")
		}
		if !ok {
			return helper.JsonError(c, fiber.StatusNotFound, "Referenced trip not found")
		}
	}

	updates := map[string]interface{}{}
	if req.FeaturedTripID != nil {
		updates["featured_trip_id"] = *req.FeaturedTripID
	}
	if req.FeaturedCTA != nil {
		updates["featured_cta"] = *req.FeaturedCTA
	}

	var blob helperOSS.BlobService
	oldImage, newImage := "", ""
	if fh, err := c.FormFile("banner"); err == nil && fh != nil {
		blob, err = h.blobService()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "OSS not ready")
		}
		imageURL, err := blob.UploadImage(c.UserContext(), bannerFolder, fh)
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return helper.JsonError(c, fe.Code, fe.Message)
			}
			return helper.JsonError(c, fiber.StatusBadGateway, "Upload failed")
		}
		updates["featured_image"] = imageURL
		oldImage = existing.FeaturedImage
		newImage = imageURL
	}

	if len(updates) == 0 {
		return helper.JsonUpdated(c, "No changes", featDTO.NewFeaturedResponse(&existing))
	}

	if err := h.applyUpdate(c.UserContext(), blob, id, updates, newImage); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update banner")
	}

	// superseded banner object, best-effort removal after the write
	if oldImage != "" && blob != nil {
		go func(b helperOSS.BlobService, url string) {
			cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			helperOSS.CleanupURLs(cctx, b, []string{url})
		}(blob, oldImage)
	}

	var after featModel.FeaturedModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("featured_id = ?", id).First(&after).Error; err == nil {
		return helper.JsonUpdated(c, "Banner updated", featDTO.NewFeaturedResponse(&after))
	}
	return helper.JsonUpdated(c, "Banner updated", featDTO.NewFeaturedResponse(&existing))
}

// applyUpdate persists the field changes. A freshly uploaded banner has no
// owning row yet when the write fails, so it is removed again before the
// error surfaces.
func (h *FeaturedController) applyUpdate(ctx context.Context, blob helperOSS.BlobService, id uuid.UUID, updates map[string]interface{}, newImage string) error {
	if err := h.DB.WithContext(ctx).Model(&featModel.FeaturedModel{}).
		Where("featured_id = ?", id).Updates(updates).Error; err != nil {
		if newImage != "" && blob != nil {
			helperOSS.CleanupURLs(ctx, blob, []string{newImage})
		}
		return err
	}
	return nil
}

// ===================== DELETE =====================
// DELETE /api/a/featured/:id — removes the banner object, never the trip
func (h *FeaturedController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid banner id")
	}

	var existing featModel.FeaturedModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("featured_id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Banner not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load banner")
	}

	if err := h.DB.WithContext(c.UserContext()).
		Where("featured_id = ?", id).Delete(&featModel.FeaturedModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete banner")
	}

	if existing.FeaturedImage != "" {
		if blob, err := h.blobService(); err == nil {
			go func(b helperOSS.BlobService, url string) {
				cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				helperOSS.CleanupURLs(cctx, b, []string{url})
			}(blob, existing.FeaturedImage)
		}
	}
	return helper.JsonDeleted(c, "Banner deleted", fiber.Map{
		"featured_id": id,
	})
}

// ===================== READ =====================
// GET /api/public/featured
func (h *FeaturedController) List(c *fiber.Ctx) error {
	var rows []featModel.FeaturedModel
	if err := h.DB.WithContext(c.UserContext()).
		Order("featured_created_at DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list banners")
	}
	return helper.JsonList(c, "", featDTO.NewFeaturedResponses(rows), nil)
}

// GET /api/public/featured/:id
func (h *FeaturedController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid banner id")
	}
	var m featModel.FeaturedModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("featured_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Banner not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load banner")
	}
	return helper.JsonOK(c, "", featDTO.NewFeaturedResponse(&m))
}
