package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/auth"
	"github.com/smoker-app/backend/internal/dto"
	"gorm.io/gorm"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	db         *gorm.DB
}

func NewAuthMiddleware(jwtService *auth.JWTService, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		db:         db,
	}
}

// Required authentication
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"UNAUTHORIZED",
				"Missing token",
			))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"UNAUTHORIZED",
				"Invalid token format",
			))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
					"TOKEN_EXPIRED",
					"Token has expired",
				))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"INVALID_TOKEN",
				"Invalid token",
			))
		}

		// Check if token is blacklisted
		var count int64
		m.db.Table("token_blacklist").Where("jti = ?", claims.JTI).Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"TOKEN_REVOKED",
				"Token has been revoked",
			))
		}

		setLocals(c, claims)
		return c.Next()
	}
}

// Optional authentication
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Next()
		}

		var count int64
		m.db.Table("token_blacklist").Where("jti = ?", claims.JTI).Count(&count)
		if count > 0 {
			return c.Next()
		}

		setLocals(c, claims)
		return c.Next()
	}
}

func setLocals(c *fiber.Ctx, claims *auth.AccessTokenClaims) {
	accountID, _ := uuid.Parse(claims.Sub)
	c.Locals("accountID", accountID)
	c.Locals("accountName", claims.Name)
	c.Locals("userRole", claims.Role)
	c.Locals("jti", claims.JTI)
	if claims.EntityAccountID != "" {
		if entityID, err := uuid.Parse(claims.EntityAccountID); err == nil {
			c.Locals("entityAccountID", entityID)
			c.Locals("entityRole", claims.EntityRole)
		}
	}
}

// Get current account ID from context
func GetAccountID(c *fiber.Ctx) *uuid.UUID {
	accountID := c.Locals("accountID")
	if accountID == nil {
		return nil
	}
	id := accountID.(uuid.UUID)
	return &id
}

// Get the entity account the viewer is acting as, nil when acting personally
func GetEntityAccountID(c *fiber.Ctx) *uuid.UUID {
	entityID := c.Locals("entityAccountID")
	if entityID == nil {
		return nil
	}
	id := entityID.(uuid.UUID)
	return &id
}

func GetEntityRole(c *fiber.Ctx) string {
	role := c.Locals("entityRole")
	if role == nil {
		return ""
	}
	return role.(string)
}

func GetAccountName(c *fiber.Ctx) string {
	name := c.Locals("accountName")
	if name == nil {
		return ""
	}
	return name.(string)
}

func GetJTI(c *fiber.Ctx) string {
	jti := c.Locals("jti")
	if jti == nil {
		return ""
	}
	return jti.(string)
}

func GetUserRole(c *fiber.Ctx) string {
	role := c.Locals("userRole")
	if role == nil {
		return ""
	}
	return role.(string)
}
