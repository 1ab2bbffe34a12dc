package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) StoreRefreshToken(userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	token := domain.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	return r.db.Create(&token).Error
}

func (r *AuthRepository) FindRefreshToken(tokenHash string) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := r.db.First(&token, "token_hash = ? AND revoked_at IS NULL AND expires_at > ?",
		tokenHash, time.Now()).Error
	return &token, err
}

func (r *AuthRepository) RevokeRefreshToken(tokenHash string) error {
	now := time.Now()
	return r.db.Model(&domain.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked_at", &now).Error
}

func (r *AuthRepository) BlacklistToken(jti string, expiresAt time.Time) error {
	entry := domain.TokenBlacklist{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}
	return r.db.Create(&entry).Error
}
