package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	notifications, err := h.service.List(*accountID, c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(notifications, "Notifications retrieved"))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid notification ID"))
	}

	if err := h.service.MarkRead(id, *accountID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(nil, "Notification marked as read"))
}
