package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tripCtl "travelku_backend/internals/features/travel/trips/controller"
	helper "travelku_backend/internals/helpers"
)

// Public reads. Mounted under /api/public.
func TripPublicRoutes(r fiber.Router, db *gorm.DB) {
	trip := tripCtl.NewTripController(db)

	g := r.Group("/trips")
	g.Get("/", trip.List(true))
	g.Get("/:id", trip.GetByID)
	g.All("/", helper.MethodNotAllowed("GET"))
	g.All("/:id", helper.MethodNotAllowed("GET"))
}

// Admin CRUD. Mounted under /api/a behind AuthJWT.
func TripAdminRoutes(r fiber.Router, db *gorm.DB) {
	trip := tripCtl.NewTripController(db)

	g := r.Group("/trips")
	g.Get("/", trip.List(false))
	g.Post("/", trip.Create)
	g.Get("/:id", trip.GetByID)
	g.Put("/:id", trip.Update)
	g.Delete("/:id", trip.Delete)
	g.All("/", helper.MethodNotAllowed("GET, POST"))
	g.All("/:id", helper.MethodNotAllowed("GET, PUT, DELETE"))
}
