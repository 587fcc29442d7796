package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	offerCtl "travelku_backend/internals/features/travel/offers/controller"
	helper "travelku_backend/internals/helpers"
)

func OfferPublicRoutes(r fiber.Router, db *gorm.DB) {
	offer := offerCtl.NewOfferController(db)

	g := r.Group("/offers")
	g.Get("/", offer.List)
	g.Get("/:id", offer.GetByID)
	g.All("/", helper.MethodNotAllowed("GET"))
	g.All("/:id", helper.MethodNotAllowed("GET"))
}

func OfferAdminRoutes(r fiber.Router, db *gorm.DB) {
	offer := offerCtl.NewOfferController(db)

	g := r.Group("/offers")
	g.Get("/", offer.ListAll)
	g.Post("/", offer.Create)
	g.Get("/:id", offer.GetByID)
	g.Put("/:id", offer.Update)
	g.Delete("/:id", offer.Delete)
	g.All("/", helper.MethodNotAllowed("GET, POST"))
	g.All("/:id", helper.MethodNotAllowed("GET, PUT, DELETE"))
}
