package handlers

import (
	"strings"
	"time"

	"github.com/bruteosaur/backend/internal/auth"
	"github.com/bruteosaur/backend/internal/config"
	"github.com/bruteosaur/backend/internal/events"
	"github.com/bruteosaur/backend/internal/http/dto"
	"github.com/bruteosaur/backend/internal/models"
	"github.com/bruteosaur/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo  *repositories.UserRepo
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, publisher events.Publisher, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, publisher: publisher, cfg: cfg, log: log}
}

// Register creates a user account and issues a token.
// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "valid email is required"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "password must be at least 8 characters"})
	}
	if len(req.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "name must be at least 2 characters"})
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	user, err := h.userRepo.Create(c.Context(), req.Email, hash, req.Name)
	if err != nil {
		if err == repositories.ErrEmailTaken {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "user already exists with this email"})
		}
		h.log.Error("failed to create user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	_ = h.publisher.Publish(c.Context(), events.StreamUser, events.Event{
		Type: events.EventUserRegistered,
		Payload: map[string]any{
			"user_id":   user.ID.String(),
			"email":     user.Email,
			"name":      user.Name,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: token, User: user})
}

// Login verifies credentials and issues a token.
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email and password are required"})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}

	if user.Status == models.UserStatusBanned {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "account is banned"})
	}

	if err := h.userRepo.UpdateLastActive(c.Context(), user.ID); err != nil {
		h.log.Error("failed to update last_active", zap.Error(err))
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	_ = h.publisher.Publish(c.Context(), events.StreamUser, events.Event{
		Type: events.EventUserLogin,
		Payload: map[string]any{
			"user_id":   user.ID.String(),
			"email":     user.Email,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}
