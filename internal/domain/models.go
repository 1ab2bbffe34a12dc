package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Enum types
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// EntityRole is the role a viewer holds when acting through an entity
// account (a bar page, a performer profile, bar staff).
type EntityRole string

const (
	EntityPage      EntityRole = "page"
	EntityPerformer EntityRole = "performer"
	EntityStaff     EntityRole = "staff"
)

type NotificationType string

const (
	NotifyNewComment   NotificationType = "new_comment"
	NotifyCommentReply NotificationType = "comment_reply"
)

// Base model with soft delete
type BaseModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"type:varchar(100);not null" json:"display_name"`
	AvatarURL    *string    `gorm:"type:text" json:"avatar_url,omitempty"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string { return "users" }

// EntityAccount is a business identity (bar page, performer, staff seat)
// a user can act through instead of their personal account.
type EntityAccount struct {
	BaseModel
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	AvatarURL *string    `gorm:"type:text" json:"avatar_url,omitempty"`
	Role      EntityRole `gorm:"type:varchar(20);not null;default:'page'" json:"role"`
	Owner     *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (EntityAccount) TableName() string { return "entity_accounts" }

// Post
type Post struct {
	BaseModel
	AuthorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	AuthorEntityID *uuid.UUID     `gorm:"type:uuid" json:"author_entity_id,omitempty"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Author         *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Post) TableName() string { return "posts" }

// Comment stores both top-level comments and replies in one flat table.
// ParentID is null for a top-level comment; ReplyToID points at the
// comment or reply a reply targets for display grouping.
//
// Author display fields are denormalized so the tree renders without joins
// even when the author row is gone.
type Comment struct {
	BaseModel
	PostID                uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentID              *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	ReplyToID             *uuid.UUID     `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	AuthorAccountID       *uuid.UUID     `gorm:"type:uuid;index" json:"author_account_id,omitempty"`
	AuthorEntityAccountID *uuid.UUID     `gorm:"type:uuid;index" json:"author_entity_account_id,omitempty"`
	AuthorKind            string         `gorm:"type:varchar(30);not null;default:'personal'" json:"author_kind"`
	AuthorName            string         `gorm:"type:varchar(100);not null" json:"author_name"`
	AuthorAvatarURL       *string        `gorm:"type:text" json:"author_avatar_url,omitempty"`
	Content               string         `gorm:"type:text;not null" json:"content"`
	AttachmentURL         *string        `gorm:"type:text" json:"attachment_url,omitempty"`
	IsEdited              bool           `gorm:"default:false" json:"is_edited"`
	LegacyLikedBy         pq.StringArray `gorm:"type:text[]" json:"-"`
	Likes                 []CommentLike  `gorm:"foreignKey:CommentID" json:"likes,omitempty"`
	Children              []Comment      `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Comment) TableName() string { return "comments" }

// CommentLike records one liker per row. LikerKey is the lower-cased
// identifier of whichever identity axis performed the like, so the pair
// (comment, liker) stays unique across account and entity likes.
type CommentLike struct {
	CommentID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"comment_id"`
	LikerKey        string     `gorm:"type:varchar(64);primaryKey" json:"liker_key"`
	AccountID       *uuid.UUID `gorm:"type:uuid" json:"account_id,omitempty"`
	EntityAccountID *uuid.UUID `gorm:"type:uuid" json:"entity_account_id,omitempty"`
	LikerKind       string     `gorm:"type:varchar(30);not null;default:'personal'" json:"liker_kind"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CommentLike) TableName() string { return "comment_likes" }

// RefreshToken
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// TokenBlacklist
type TokenBlacklist struct {
	JTI       string    `gorm:"type:varchar(64);primaryKey" json:"jti"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }

// Notification
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   *string          `gorm:"type:text" json:"message,omitempty"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string { return "notifications" }
