package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"github.com/smoker-app/backend/internal/repository"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) NotifyNewComment(post *domain.Post, comment *domain.Comment, commenterName string) {
	message := truncate(comment.Content, 120)
	notification := &domain.Notification{
		UserID:  post.AuthorID,
		Type:    domain.NotifyNewComment,
		Title:   fmt.Sprintf("%s commented on your post", commenterName),
		Message: &message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("failed to create comment notification: %v", err)
	}
}

func (s *NotificationService) NotifyCommentReply(parent *domain.Comment, reply *domain.Comment, replierName string) {
	if parent.AuthorAccountID == nil {
		return
	}
	message := truncate(reply.Content, 120)
	notification := &domain.Notification{
		UserID:  *parent.AuthorAccountID,
		Type:    domain.NotifyCommentReply,
		Title:   fmt.Sprintf("%s replied to your comment", replierName),
		Message: &message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("failed to create reply notification: %v", err)
	}
}

func (s *NotificationService) List(userID uuid.UUID, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.GetByUserID(userID, limit)
}

func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(id, userID)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
