package repository

import (
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, "username = ?", username).Error
	return &user, err
}

func (r *UserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) UpdateLastLogin(id uuid.UUID) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *UserRepository) FindEntityByID(id uuid.UUID) (*domain.EntityAccount, error) {
	var entity domain.EntityAccount
	err := r.db.First(&entity, "id = ?", id).Error
	return &entity, err
}

func (r *UserRepository) FindEntitiesByOwner(ownerID uuid.UUID) ([]domain.EntityAccount, error) {
	var entities []domain.EntityAccount
	err := r.db.Where("owner_id = ?", ownerID).Find(&entities).Error
	return entities, err
}

func (r *UserRepository) CreateEntity(entity *domain.EntityAccount) error {
	return r.db.Create(entity).Error
}
