package handlers

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/bruteosaur/backend/internal/events"
	"github.com/bruteosaur/backend/internal/http/dto"
	"github.com/bruteosaur/backend/internal/models"
	"github.com/bruteosaur/backend/internal/repositories"
	"github.com/bruteosaur/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	statsService *services.StatsService
	userRepo     *repositories.UserRepo
	logRepo      *repositories.WalletLogRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewAdminHandler(
	statsService *services.StatsService,
	userRepo *repositories.UserRepo,
	logRepo *repositories.WalletLogRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		statsService: statsService,
		userRepo:     userRepo,
		logRepo:      logRepo,
		publisher:    publisher,
		log:          log,
	}
}

// Stats returns the dashboard aggregates.
// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsService.Dashboard(c.Context())
	if err != nil {
		h.log.Error("failed to compute dashboard stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// RealtimeStats returns the short-window counters.
// GET /admin/realtime-stats
func (h *AdminHandler) RealtimeStats(c *fiber.Ctx) error {
	stats, err := h.statsService.Realtime(c.Context())
	if err != nil {
		h.log.Error("failed to compute realtime stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// ListUsers pages through users with search and status filtering.
// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)
	search := c.Query("search")
	status := c.Query("status")
	if status == "all" {
		status = ""
	}

	users, total, err := h.userRepo.List(c.Context(), search, status, page, pageSize)
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.PageResponse{
		OK:         true,
		Data:       users,
		Pagination: dto.NewPagination(page, pageSize, total),
	})
}

// GetUser returns one user plus their ten most recent attempts.
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}

	user, err := h.userRepo.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	logs, _, err := h.logRepo.List(c.Context(), repositories.LogFilter{UserID: &id}, 1, 10)
	if err != nil {
		h.log.Error("failed to list user wallet logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"user":        user,
		"wallet_logs": logs,
	}})
}

// UpdateUserStatus changes a user's status and broadcasts the change.
// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}

	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if !models.IsValidUserStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid status"})
	}

	user, err := h.userRepo.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	_ = h.publisher.Publish(c.Context(), events.StreamUser, events.Event{
		Type: events.EventUserStatusUpdated,
		Payload: map[string]any{
			"user_id":   user.ID.String(),
			"status":    user.Status,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})

	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// WalletLogs pages through all connection attempts with filters.
// GET /admin/wallet-logs
func (h *AdminHandler) WalletLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	filter := repositories.LogFilter{}
	if status := c.Query("status"); status != "" && status != "all" {
		filter.Status = status
	}
	if method := c.Query("method"); method != "" && method != "all" {
		filter.Method = method
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid from timestamp"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid to timestamp"})
		}
		filter.To = &t
	}

	logs, total, err := h.logRepo.ListWithUsers(c.Context(), filter, page, pageSize)
	if err != nil {
		h.log.Error("failed to list wallet logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.PageResponse{
		OK:         true,
		Data:       logs,
		Pagination: dto.NewPagination(page, pageSize, total),
	})
}

// ExportUsers dumps all user rows as CSV.
// GET /admin/export/users
func (h *AdminHandler) ExportUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.ListAll(c.Context())
	if err != nil {
		h.log.Error("failed to export users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ID", "Name", "Email", "Wallet Method", "Wallet Address", "Balance", "Status", "Registration Date", "Last Active"})
	for _, u := range users {
		method, address := "", ""
		if u.WalletMethod != nil {
			method = *u.WalletMethod
		}
		if u.WalletAddress != nil {
			address = *u.WalletAddress
		}
		_ = w.Write([]string{
			u.ID.String(),
			u.Name,
			u.Email,
			method,
			address,
			strconv.FormatFloat(u.Balance, 'f', -1, 64),
			u.Status,
			u.CreatedAt.Format(time.RFC3339),
			u.LastActiveAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.log.Error("failed to write csv", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users_export.csv"`)
	return c.Send(buf.Bytes())
}
