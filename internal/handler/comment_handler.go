package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/service"
)

type CommentHandler struct {
	service *service.CommentService
}

func NewCommentHandler(service *service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// actorFromCtx builds the acting identity from auth locals. Returns nil
// when the request is unauthenticated.
func actorFromCtx(c *fiber.Ctx) *service.Actor {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return nil
	}

	actor := service.Actor{
		AccountID:       *accountID,
		EntityAccountID: middleware.GetEntityAccountID(c),
		Name:            middleware.GetAccountName(c),
		IsAdmin:         middleware.GetUserRole(c) == "admin",
	}
	actor.Kind = authorKindForEntityRole(middleware.GetEntityRole(c))
	return &actor
}

// authorKindForEntityRole classifies the acting identity for storage and
// wire tagging. Unrecognized roles fall back to a personal account.
func authorKindForEntityRole(role string) string {
	switch role {
	case "page":
		return "business_page"
	case "performer", "staff":
		return "business_role"
	default:
		return "personal"
	}
}

func (h *CommentHandler) GetByPostID(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}

	comments, err := h.service.GetTree(postID, actorFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(comments, "Comments retrieved successfully"))
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_CONTENT", "Content is required"))
	}

	comment, err := h.service.Create(postID, *actor, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(comment, "Comment created successfully"))
}

func (h *CommentHandler) CreateReply(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid comment ID"))
	}

	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_CONTENT", "Content is required"))
	}

	var replyToID *uuid.UUID
	if req.ReplyToID != nil && *req.ReplyToID != "" {
		id, err := uuid.Parse(*req.ReplyToID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid reply target ID"))
		}
		replyToID = &id
	}

	reply, err := h.service.CreateReply(postID, commentID, replyToID, *actor, req)
	if err != nil {
		if err.Error() == "comment not found" {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Comment not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(reply, "Reply created successfully"))
}

func (h *CommentHandler) update(c *fiber.Ctx, commentParam string) error {
	actor := actorFromCtx(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}
	commentID, err := uuid.Parse(c.Params(commentParam))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid comment ID"))
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_CONTENT", "Content is required"))
	}

	comment, err := h.service.Update(postID, commentID, *actor, req.Content)
	if err != nil {
		if err.Error() == "unauthorized" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "You are not allowed to edit this comment"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(comment, "Comment updated successfully"))
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	return h.update(c, "id")
}

// UpdateReply edits a reply. Replies live in the same flat table, so the
// service path is shared; the route shape mirrors the delete variant.
func (h *CommentHandler) UpdateReply(c *fiber.Ctx) error {
	return h.update(c, "reply_id")
}

func (h *CommentHandler) delete(c *fiber.Ctx, commentParam string) error {
	actor := actorFromCtx(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}
	commentID, err := uuid.Parse(c.Params(commentParam))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid comment ID"))
	}

	if err := h.service.Delete(postID, commentID, *actor); err != nil {
		if err.Error() == "unauthorized" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "You are not allowed to delete this comment"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(nil, "Comment deleted successfully"))
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, "id")
}

func (h *CommentHandler) DeleteReply(c *fiber.Ctx) error {
	return h.delete(c, "reply_id")
}

func (h *CommentHandler) like(c *fiber.Ctx, commentParam string, like bool) error {
	actor := actorFromCtx(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid post ID"))
	}
	commentID, err := uuid.Parse(c.Params(commentParam))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid comment ID"))
	}

	if like {
		err = h.service.Like(postID, commentID, *actor)
	} else {
		err = h.service.Unlike(postID, commentID, *actor)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	message := "Comment liked"
	if !like {
		message = "Comment unliked"
	}
	return c.JSON(dto.SuccessResponse(nil, message))
}

func (h *CommentHandler) Like(c *fiber.Ctx) error {
	return h.like(c, "id", true)
}

func (h *CommentHandler) Unlike(c *fiber.Ctx) error {
	return h.like(c, "id", false)
}

func (h *CommentHandler) LikeReply(c *fiber.Ctx) error {
	return h.like(c, "reply_id", true)
}

func (h *CommentHandler) UnlikeReply(c *fiber.Ctx) error {
	return h.like(c, "reply_id", false)
}
