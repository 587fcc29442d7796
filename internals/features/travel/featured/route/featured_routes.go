package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	featCtl "travelku_backend/internals/features/travel/featured/controller"
	helper "travelku_backend/internals/helpers"
)

func FeaturedPublicRoutes(r fiber.Router, db *gorm.DB) {
	feat := featCtl.NewFeaturedController(db)

	g := r.Group("/featured")
	g.Get("/", feat.List)
	g.Get("/:id", feat.GetByID)
	g.All("/", helper.MethodNotAllowed("GET"))
	g.All("/:id", helper.MethodNotAllowed("GET"))
}

func FeaturedAdminRoutes(r fiber.Router, db *gorm.DB) {
	feat := featCtl.NewFeaturedController(db)

	g := r.Group("/featured")
	g.Get("/", feat.List)
	g.Post("/", feat.Create)
	g.Get("/:id", feat.GetByID)
	g.Put("/:id", feat.Update)
	g.Delete("/:id", feat.Delete)
	g.All("/", helper.MethodNotAllowed("GET, POST"))
	g.All("/:id", helper.MethodNotAllowed("GET, PUT, DELETE"))
}
