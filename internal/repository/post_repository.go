package repository

import (
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *domain.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) FindByID(id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Preload("Author").First(&post, "id = ?", id).Error
	return &post, err
}

func (r *PostRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&domain.Post{}, "id = ?", id).Error
}
