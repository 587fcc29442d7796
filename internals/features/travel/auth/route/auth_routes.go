package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authCtl "travelku_backend/internals/features/travel/auth/controller"
	helper "travelku_backend/internals/helpers"
	"travelku_backend/internals/middlewares"
)

func AuthRoutes(r fiber.Router, db *gorm.DB) {
	auth := authCtl.NewAuthController(db)

	g := r.Group("/auth")
	g.Post("/login", middlewares.LoginRateLimiter(), auth.Login)
	g.All("/login", helper.MethodNotAllowed("POST"))
}
