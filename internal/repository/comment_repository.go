package repository

import (
	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.Preload("Likes").First(&comment, "id = ?", id).Error
	return &comment, err
}

func (r *CommentRepository) Update(comment *domain.Comment) error {
	return r.db.Save(comment).Error
}

// Delete removes a comment together with its replies and like rows in one
// transaction, so readers never observe an orphaned reply.
func (r *CommentRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var childIDs []uuid.UUID
		if err := tx.Model(&domain.Comment{}).
			Where("parent_id = ?", id).
			Pluck("id", &childIDs).Error; err != nil {
			return err
		}

		ids := append(childIDs, id)
		if err := tx.Where("comment_id IN ?", ids).
			Delete(&domain.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&domain.Comment{}).Error
	})
}

func (r *CommentRepository) GetByPostID(postID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	// Fetch the whole flat collection for the post; the service splits
	// top-level comments from replies via ParentID.
	err := r.db.Preload("Likes").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) CountByPostID(postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// Like is idempotent: repeating a like from the same identity updates the
// existing row instead of failing on the primary key.
func (r *CommentRepository) Like(like *domain.CommentLike) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "liker_key"}},
		DoNothing: true,
	}).Create(like).Error
}

func (r *CommentRepository) Unlike(commentID uuid.UUID, likerKey string) error {
	return r.db.Where("comment_id = ? AND liker_key = ?", commentID, likerKey).
		Delete(&domain.CommentLike{}).Error
}

func (r *CommentRepository) CountLikes(commentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
