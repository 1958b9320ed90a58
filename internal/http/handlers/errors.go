package handlers

import (
	"github.com/bruteosaur/backend/internal/http/dto"
	"github.com/bruteosaur/backend/internal/middleware"
	"github.com/bruteosaur/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

var codeStatuses = map[string]int{
	services.CodeAuthRequired:            fiber.StatusUnauthorized,
	services.CodeValidationError:         fiber.StatusBadRequest,
	services.CodeInvalidCredentialFormat: fiber.StatusBadRequest,
	services.CodeZeroBalanceNotAllowed:   fiber.StatusBadRequest,
	services.CodeNotFound:                fiber.StatusNotFound,
	services.CodeInternal:                fiber.StatusInternalServerError,
}

// serviceError renders a service failure with its stable reason code.
func serviceError(c *fiber.Ctx, err error) error {
	code := services.ErrorCode(err)
	status, ok := codeStatuses[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:      code,
		Error:     err.Error(),
		RequestID: reqID,
	})
}
