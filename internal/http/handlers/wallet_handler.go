package handlers

import (
	"github.com/bruteosaur/backend/internal/http/dto"
	"github.com/bruteosaur/backend/internal/middleware"
	"github.com/bruteosaur/backend/internal/repositories"
	"github.com/bruteosaur/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WalletHandler struct {
	connectService *services.ConnectService
	logRepo        *repositories.WalletLogRepo
	log            *zap.Logger
}

func NewWalletHandler(connectService *services.ConnectService, logRepo *repositories.WalletLogRepo, log *zap.Logger) *WalletHandler {
	return &WalletHandler{connectService: connectService, logRepo: logRepo, log: log}
}

// Connect validates an extension-flow wallet and binds it to the caller.
// POST /wallet/connect
func (h *WalletHandler) Connect(c *fiber.Ctx) error {
	var req dto.ConnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: services.CodeValidationError, Error: "invalid request body"})
	}

	result, err := h.connectService.ConnectWallet(c.Context(), middleware.GetUserID(c), services.WalletConnectRequest{
		WalletMethod:  req.WalletMethod,
		WalletAddress: req.WalletAddress,
		IPAddress:     c.IP(),
		UserAgent:     c.Get("User-Agent"),
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

// ManualConnect validates a raw mnemonic or private key submission.
// POST /wallet/manual-connect
func (h *WalletHandler) ManualConnect(c *fiber.Ctx) error {
	var req dto.ManualConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: services.CodeValidationError, Error: "invalid request body"})
	}

	result, err := h.connectService.ConnectManual(c.Context(), middleware.GetUserID(c), services.ManualConnectRequest{
		InputType: req.InputType,
		Input:     req.Input,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

// MyLogs pages through the caller's own connection attempts.
// GET /wallet/logs
func (h *WalletHandler) MyLogs(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	logs, total, err := h.logRepo.List(c.Context(), repositories.LogFilter{UserID: &userID}, page, pageSize)
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
