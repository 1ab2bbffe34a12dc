package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/auth"
	"github.com/smoker-app/backend/internal/domain"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo   *repository.UserRepository
	authRepo   *repository.AuthRepository
	jwtService *auth.JWTService
}

func NewAuthHandler(userRepo *repository.UserRepository, authRepo *repository.AuthRepository, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		authRepo:   authRepo,
		jwtService: jwtService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "All fields are required"))
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		DisplayName:  req.DisplayName,
		Role:         domain.RoleMember,
		IsActive:     true,
	}
	if err := h.userRepo.Create(user); err != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse("CONFLICT", "Username or email already taken"))
	}

	pair, err := h.issueTokens(user.ID, user.DisplayName, string(user.Role), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(pair, "Account created"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	user, err := h.userRepo.FindByUsername(req.Username)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("INVALID_CREDENTIALS", "Invalid username or password"))
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("ACCOUNT_DISABLED", "Account is disabled"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("INVALID_CREDENTIALS", "Invalid username or password"))
	}

	pair, err := h.issueTokens(user.ID, user.DisplayName, string(user.Role), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	_ = h.userRepo.UpdateLastLogin(user.ID)

	return c.JSON(dto.SuccessResponse(pair, "Login successful"))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	stored, err := h.authRepo.FindRefreshToken(auth.HashToken(req.RefreshToken))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("INVALID_TOKEN", "Invalid refresh token"))
	}

	user, err := h.userRepo.FindByID(stored.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("INVALID_TOKEN", "Invalid refresh token"))
	}

	// Rotate: revoke the used token before issuing a new pair
	if err := h.authRepo.RevokeRefreshToken(stored.TokenHash); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	pair, err := h.issueTokens(user.ID, user.DisplayName, string(user.Role), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(pair, "Token refreshed"))
}

// ActAs switches the session's acting identity to one of the user's
// entity accounts (or back to the personal account). Clients treat the
// new token as an identity-changed signal and reload their comment trees.
func (h *AuthHandler) ActAs(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var req dto.ActAsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	user, err := h.userRepo.FindByID(*accountID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var acting *auth.ActingIdentity
	name := user.DisplayName
	if req.EntityAccountID != "" {
		entityID, err := uuid.Parse(req.EntityAccountID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ID", "Invalid entity account ID"))
		}
		entity, err := h.userRepo.FindEntityByID(entityID)
		if err != nil || entity.OwnerID != user.ID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "Entity account not owned by user"))
		}
		acting = &auth.ActingIdentity{
			EntityAccountID: &entity.ID,
			EntityRole:      string(entity.Role),
		}
		name = entity.Name
	}

	pair, err := h.issueTokens(user.ID, name, string(user.Role), acting)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(pair, "Acting identity switched"))
}

// Logout blacklists the current access token; the refresh token is
// revoked too when the client sends it along.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	jti := middleware.GetJTI(c)
	if jti == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	if err := h.authRepo.BlacklistToken(jti, time.Now().Add(h.jwtService.GetAccessExpiry())); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		_ = h.authRepo.RevokeRefreshToken(auth.HashToken(req.RefreshToken))
	}

	return c.JSON(dto.SuccessResponse(nil, "Logged out"))
}

// CreateEntity registers a new entity account owned by the user.
func (h *AuthHandler) CreateEntity(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	var req dto.CreateEntityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_BODY", "Name is required"))
	}
	switch domain.EntityRole(req.Role) {
	case domain.EntityPage, domain.EntityPerformer, domain.EntityStaff:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("INVALID_ROLE", "Unknown entity role"))
	}

	entity := &domain.EntityAccount{
		OwnerID:   *accountID,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Role:      domain.EntityRole(req.Role),
	}
	if err := h.userRepo.CreateEntity(entity); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(entity, "Entity account created"))
}

// Entities lists the entity accounts the user may act through.
func (h *AuthHandler) Entities(c *fiber.Ctx) error {
	accountID := middleware.GetAccountID(c)
	if accountID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	entities, err := h.userRepo.FindEntitiesByOwner(*accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(dto.SuccessResponse(entities, "Entity accounts retrieved"))
}

func (h *AuthHandler) issueTokens(userID uuid.UUID, name, role string, acting *auth.ActingIdentity) (*auth.TokenPair, error) {
	accessToken, _, err := h.jwtService.GenerateAccessToken(userID, name, role, acting)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, expiresAt := h.jwtService.GenerateRefreshToken()
	if err := h.authRepo.StoreRefreshToken(userID, refreshHash, expiresAt); err != nil {
		return nil, err
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.jwtService.GetAccessExpiry().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
