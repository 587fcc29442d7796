package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"travelku_backend/internals/configs"
	authDTO "travelku_backend/internals/features/travel/auth/dto"
	authModel "travelku_backend/internals/features/travel/auth/model"
	helper "travelku_backend/internals/helpers"
)

const tokenTTL = 24 * time.Hour

type AuthController struct{ DB *gorm.DB }

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var validateLogin = validator.New()

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload not valid JSON")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validateLogin.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "username and password are required")
	}
	if configs.JWTSecret == "" {
		return helper.JsonError(c, fiber.StatusInternalServerError, "auth is not configured")
	}

	var admin authModel.AdminModel
	err := h.DB.WithContext(c.UserContext()).
		Where("admin_username = ? AND admin_is_active = TRUE", req.Username).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same message as a bad password so usernames can't be probed
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.AdminPassword), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	now := time.Now()
	exp := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub": admin.AdminID.String(),
		"usr": admin.AdminUsername,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign token")
	}

	if err := h.DB.WithContext(c.UserContext()).
		Model(&authModel.AdminModel{}).
		Where("admin_id = ?", admin.AdminID).
		Update("admin_last_login_at", now).Error; err != nil {
		log.Printf("[AUTH] last_login_at update failed for %s: %v", admin.AdminUsername, err)
	}

	return helper.JsonOK(c, "Login successful", authDTO.LoginResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	})
}
