package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smoker-app/backend/internal/domain"
	"github.com/smoker-app/backend/internal/dto"
	"github.com/smoker-app/backend/internal/repository"
)

// Actor is the resolved identity a request acts as: always an account,
// optionally an entity account the viewer has switched to.
type Actor struct {
	AccountID       uuid.UUID
	EntityAccountID *uuid.UUID
	Name            string
	AvatarURL       *string
	Kind            string
	IsAdmin         bool
}

// LikerKey returns the lower-cased identifier the like row is keyed on:
// the entity account when acting as one, the raw account otherwise.
func (a Actor) LikerKey() string {
	if a.EntityAccountID != nil {
		return strings.ToLower(a.EntityAccountID.String())
	}
	return strings.ToLower(a.AccountID.String())
}

type CommentService struct {
	commentRepo         *repository.CommentRepository
	postRepo            *repository.PostRepository
	userRepo            *repository.UserRepository
	notificationService *NotificationService
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// SetNotificationService - injected after construction to avoid a
// circular wiring in main
func (s *CommentService) SetNotificationService(ns *NotificationService) {
	s.notificationService = ns
}

func (s *CommentService) Create(postID uuid.UUID, actor Actor, req dto.CreateCommentRequest) (*domain.Comment, error) {
	return s.create(postID, nil, nil, actor, req.Content, req.AttachmentURL)
}

func (s *CommentService) CreateReply(postID, parentID uuid.UUID, replyToID *uuid.UUID, actor Actor, req dto.CreateReplyRequest) (*domain.Comment, error) {
	parent, err := s.commentRepo.FindByID(parentID)
	if err != nil {
		return nil, fmt.Errorf("comment not found")
	}
	if parent.PostID != postID || parent.ParentID != nil {
		return nil, fmt.Errorf("comment not found")
	}
	return s.create(postID, &parentID, replyToID, actor, req.Content, req.AttachmentURL)
}

func (s *CommentService) create(postID uuid.UUID, parentID, replyToID *uuid.UUID, actor Actor, content string, attachmentURL *string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is empty")
	}

	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post not found")
	}

	accountID := actor.AccountID
	comment := &domain.Comment{
		PostID:                postID,
		ParentID:              parentID,
		ReplyToID:             replyToID,
		AuthorAccountID:       &accountID,
		AuthorEntityAccountID: actor.EntityAccountID,
		AuthorKind:            actor.Kind,
		AuthorName:            actor.Name,
		AuthorAvatarURL:       s.resolveAvatar(actor),
		Content:               content,
		AttachmentURL:         attachmentURL,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Notification fan-out must not delay or fail the write
	go func() {
		if s.notificationService == nil {
			return
		}

		if parentID != nil {
			parent, err := s.commentRepo.FindByID(*parentID)
			if err == nil && parent.AuthorAccountID != nil && *parent.AuthorAccountID != actor.AccountID {
				s.notificationService.NotifyCommentReply(parent, comment, actor.Name)
			}
		}

		if post.AuthorID != actor.AccountID {
			shouldNotifyOwner := true
			if parentID != nil {
				parent, _ := s.commentRepo.FindByID(*parentID)
				if parent != nil && parent.AuthorAccountID != nil && *parent.AuthorAccountID == post.AuthorID {
					shouldNotifyOwner = false // Already notified as reply
				}
			}
			if shouldNotifyOwner {
				s.notificationService.NotifyNewComment(post, comment, actor.Name)
			}
		}
	}()

	return comment, nil
}

// resolveAvatar denormalizes the acting identity's avatar onto the
// comment row so the tree renders without author joins. Token claims do
// not carry avatars, so it is looked up from the entity or user record.
func (s *CommentService) resolveAvatar(actor Actor) *string {
	if actor.AvatarURL != nil {
		return actor.AvatarURL
	}
	if actor.EntityAccountID != nil {
		if entity, err := s.userRepo.FindEntityByID(*actor.EntityAccountID); err == nil {
			return entity.AvatarURL
		}
		return nil
	}
	if user, err := s.userRepo.FindByID(actor.AccountID); err == nil {
		return user.AvatarURL
	}
	return nil
}

// GetTree returns the post's full comment collection in the canonical
// list shape: top-level comments each carrying a flat reply list, with
// like sets, counts and viewer-asserted flags resolved server side when
// the viewer is known.
func (s *CommentService) GetTree(postID uuid.UUID, viewer *Actor) ([]dto.CommentWire, error) {
	comments, err := s.commentRepo.GetByPostID(postID)
	if err != nil {
		return nil, err
	}
	return s.buildWireTree(comments, viewer), nil
}

func (s *CommentService) buildWireTree(comments []domain.Comment, viewer *Actor) []dto.CommentWire {
	wireByID := make(map[uuid.UUID]*dto.CommentWire)
	var rootIDs []uuid.UUID
	replyIDs := make(map[uuid.UUID][]uuid.UUID)

	for i := range comments {
		c := &comments[i]
		wireByID[c.ID] = s.toWire(c, viewer)
		if c.ParentID == nil {
			rootIDs = append(rootIDs, c.ID)
		} else {
			replyIDs[*c.ParentID] = append(replyIDs[*c.ParentID], c.ID)
		}
	}

	result := make([]dto.CommentWire, 0, len(rootIDs))
	for _, id := range rootIDs {
		root := wireByID[id]
		for _, childID := range replyIDs[id] {
			root.Replies = append(root.Replies, *wireByID[childID])
		}
		result = append(result, *root)
	}
	return result
}

func (s *CommentService) toWire(c *domain.Comment, viewer *Actor) *dto.CommentWire {
	likes := make([]dto.LikeWire, 0, len(c.Likes)+len(c.LegacyLikedBy))
	for _, l := range c.Likes {
		var accountID, entityID *string
		if l.AccountID != nil {
			v := l.AccountID.String()
			accountID = &v
		}
		if l.EntityAccountID != nil {
			v := l.EntityAccountID.String()
			entityID = &v
		}
		likes = append(likes, dto.LikeWire{
			AccountID:       accountID,
			EntityAccountID: entityID,
			LikerKind:       l.LikerKind,
		})
	}
	// Rows from before the like migration carry bare account ids
	for _, legacy := range c.LegacyLikedBy {
		id := legacy
		likes = append(likes, dto.LikeWire{AccountID: &id})
	}

	count := len(likes)
	wire := &dto.CommentWire{
		ID:            c.ID.String(),
		AuthorKind:    c.AuthorKind,
		AuthorName:    c.AuthorName,
		Content:       c.Content,
		AttachmentURL: c.AttachmentURL,
		Likes:         likes,
		LikesCount:    &count,
		IsEdited:      c.IsEdited,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	wire.AuthorAvatarURL = c.AuthorAvatarURL
	if c.AuthorAccountID != nil {
		v := c.AuthorAccountID.String()
		wire.AuthorAccountID = &v
	}
	if c.AuthorEntityAccountID != nil {
		v := c.AuthorEntityAccountID.String()
		wire.AuthorEntityAccountID = &v
	}
	if c.ReplyToID != nil {
		v := c.ReplyToID.String()
		wire.ReplyToID = &v
	}

	if viewer != nil {
		liked := false
		key := viewer.LikerKey()
		for _, l := range c.Likes {
			if l.LikerKey == key {
				liked = true
				break
			}
		}
		if !liked {
			accountKey := strings.ToLower(viewer.AccountID.String())
			for _, legacy := range c.LegacyLikedBy {
				if strings.ToLower(legacy) == accountKey {
					liked = true
					break
				}
			}
		}
		wire.Liked = &liked

		canManage := s.canManage(c, *viewer)
		wire.CanManage = &canManage
	}

	return wire
}

func (s *CommentService) canManage(c *domain.Comment, actor Actor) bool {
	if actor.IsAdmin {
		return true
	}
	if c.AuthorEntityAccountID != nil && actor.EntityAccountID != nil &&
		*c.AuthorEntityAccountID == *actor.EntityAccountID {
		return true
	}
	return c.AuthorAccountID != nil && *c.AuthorAccountID == actor.AccountID
}

func (s *CommentService) Update(postID, commentID uuid.UUID, actor Actor, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is empty")
	}

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, fmt.Errorf("comment not found")
	}
	if !s.canManage(comment, actor) {
		return nil, fmt.Errorf("unauthorized")
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(postID, commentID uuid.UUID, actor Actor) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return fmt.Errorf("comment not found")
	}
	if !s.canManage(comment, actor) {
		return fmt.Errorf("unauthorized")
	}

	return s.commentRepo.Delete(commentID)
}

func (s *CommentService) Like(postID, commentID uuid.UUID, actor Actor) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return fmt.Errorf("comment not found")
	}

	accountID := actor.AccountID
	like := &domain.CommentLike{
		CommentID:       commentID,
		LikerKey:        actor.LikerKey(),
		AccountID:       &accountID,
		EntityAccountID: actor.EntityAccountID,
		LikerKind:       actor.Kind,
	}
	return s.commentRepo.Like(like)
}

func (s *CommentService) Unlike(postID, commentID uuid.UUID, actor Actor) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return fmt.Errorf("comment not found")
	}
	return s.commentRepo.Unlike(commentID, actor.LikerKey())
}
