package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	tripDTO "travelku_backend/internals/features/travel/trips/dto"
	tripRepo "travelku_backend/internals/features/travel/trips/repository"
	tripService "travelku_backend/internals/features/travel/trips/service"
	helper "travelku_backend/internals/helpers"
	helperOSS "travelku_backend/internals/helpers/oss"
)

type TripController struct {
	DB   *gorm.DB
	Repo *tripRepo.TripRepository
}

func NewTripController(db *gorm.DB) *TripController {
	return &TripController{DB: db, Repo: tripRepo.NewTripRepository(db)}
}

func (h *TripController) newService(c *fiber.Ctx) (*tripService.TripService, error) {
	blob, err := helperOSS.NewOSSBlobServiceFromEnv("")
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadGateway, "OSS not ready")
	}
	return tripService.NewTripService(h.Repo, blob), nil
}

// ===================== CREATE =====================
// POST /api/a/trips
func (h *TripController) Create(c *fiber.Ctx) error {
	form, err := tripDTO.ParseTripSubmission(c, helperOSS.MaxUploadBytes())
	if err != nil {
		return fiberToJSON(c, err)
	}

	svc, err := h.newService(c)
	if err != nil {
		return err
	}

	trip, err := svc.Create(c.UserContext(), form)
	if err != nil {
		return fiberToJSON(c, err)
	}
	return helper.JsonCreated(c, "Trip created", fiber.Map{
		"trip_id": trip.TripID,
	})
}

// ===================== UPDATE =====================
// PUT /api/a/trips/:id
func (h *TripController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid trip id")
	}

	form, err := tripDTO.ParseTripSubmission(c, helperOSS.MaxUploadBytes())
	if err != nil {
		return fiberToJSON(c, err)
	}

	svc, err := h.newService(c)
	if err != nil {
		return err
	}

	trip, err := svc.Update(c.UserContext(), id, form)
	if err != nil {
		return fiberToJSON(c, err)
	}
	return helper.JsonUpdated(c, "Trip updated", fiber.Map{
		"trip_id": trip.TripID,
	})
}

// ===================== DELETE =====================
// DELETE /api/a/trips/:id
func (h *TripController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid trip id")
	}

	svc, err := h.newService(c)
	if err != nil {
		return err
	}

	if err := svc.Delete(c.UserContext(), id); err != nil {
		return fiberToJSON(c, err)
	}
	return helper.JsonDeleted(c, "Trip deleted", fiber.Map{
		"trip_id": id,
	})
}

// ===================== READ =====================

// GET /api/public/trips (display filter on) and GET /api/a/trips (off)
func (h *TripController) List(displayOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		paging := helper.ResolvePaging(c, 20, 100)

		trips, total, err := h.Repo.List(c.UserContext(), tripRepo.ListFilter{
			DisplayOnly: displayOnly,
			Destination: strings.TrimSpace(c.Query("destination")),
			Offset:      paging.Offset,
			Limit:       paging.Limit,
		})
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list trips")
		}

		p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
		return helper.JsonList(c, "", tripDTO.NewTripResponses(trips), &p)
	}
}

// GET /api/public/trips/:id — fetch by id bypasses the display filter
func (h *TripController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid trip id")
	}

	trip, err := h.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Trip not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load trip")
	}
	return helper.JsonOK(c, "", tripDTO.NewTripResponse(trip))
}

// fiberToJSON renders a *fiber.Error through the standard envelope.
func fiberToJSON(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}
