package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"travelku_backend/internals/configs"
	authRoute "travelku_backend/internals/features/travel/auth/route"
	featRoute "travelku_backend/internals/features/travel/featured/route"
	offerRoute "travelku_backend/internals/features/travel/offers/route"
	tripRoute "travelku_backend/internals/features/travel/trips/route"
	helper "travelku_backend/internals/helpers"
	authmw "travelku_backend/internals/middlewares/auth"
)

// SetupRoutes wires the whole HTTP surface:
//
//	/api/public — anonymous reads for the site
//	/api/a      — JWT-guarded admin CRUD
//	/api/auth   — login
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	public := api.Group("/public")
	tripRoute.TripPublicRoutes(public, db)
	featRoute.FeaturedPublicRoutes(public, db)
	offerRoute.OfferPublicRoutes(public, db)

	admin := api.Group("/a", authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))
	tripRoute.TripAdminRoutes(admin, db)
	featRoute.FeaturedAdminRoutes(admin, db)
	offerRoute.OfferAdminRoutes(admin, db)

	authRoute.AuthRoutes(api, db)

	app.Use(func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusNotFound, "Route not found")
	})
}
