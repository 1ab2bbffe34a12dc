package handler

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/storage"
)

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadHandler struct {
	minioClient *storage.MinIOClient
}

func NewUploadHandler(minioClient *storage.MinIOClient) *UploadHandler {
	return &UploadHandler{minioClient: minioClient}
}

// Presign returns a short-lived PUT URL for a comment attachment.
func (h *UploadHandler) Presign(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var req dto.PresignUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if !allowedAttachmentTypes[req.ContentType] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_TYPE", "Unsupported attachment type"))
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	objectKey := fmt.Sprintf("attachments/%s/%s%s", accountID.String(), uuid.New().String(), ext)

	uploadURL, err := h.minioClient.GetPresignedPutURL(objectKey, req.ContentType, 15*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(dto.PresignUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		PublicURL: h.minioClient.GetPublicURL(objectKey),
	}, "Upload URL generated"))
}

// Confirm verifies the object landed and returns its public URL for use
// as the comment's attachment_url.
func (h *UploadHandler) Confirm(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var req dto.ConfirmUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	if !strings.HasPrefix(req.ObjectKey, "attachments/"+accountID.String()+"/") {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "Object key does not belong to user"))
	}

	exists, err := h.minioClient.ObjectExists(req.ObjectKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Object not found"))
	}

	return c.JSON(dto.SuccessResponse(fiber.Map{
		"public_url": h.minioClient.GetPublicURL(req.ObjectKey),
	}, "Upload confirmed"))
}
