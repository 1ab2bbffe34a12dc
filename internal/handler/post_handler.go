package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/repository"
)

type PostHandler struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
}

func NewPostHandler(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository) *PostHandler {
	return &PostHandler{postRepo: postRepo, commentRepo: commentRepo}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_CONTENT", "Content is required"))
	}

	post := &domain.Post{
		AuthorID:       *accountID,
		AuthorEntityID: middleware.GetEntityAccountID(c),
		Content:        content,
		Tags:           req.Tags,
	}
	if err := h.postRepo.Create(post); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(post, "Post created successfully"))
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}

	post, err := h.postRepo.FindByID(postID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Post not found"))
	}

	commentCount, err := h.commentRepo.CountByPostID(postID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(fiber.Map{
		"post":           post,
		"comments_count": commentCount,
	}, "Post retrieved successfully"))
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}

	post, err := h.postRepo.FindByID(postID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Post not found"))
	}
	if post.AuthorID != *accountID && middleware.GetUserRole(c) != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "You are not allowed to delete this post"))
	}

	if err := h.postRepo.Delete(postID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(nil, "Post deleted successfully"))
}
