package dto

import (
	"time"
)

type CreateCommentRequest struct {
	Content       string  `json:"content" validate:"required,min=1"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

type CreateReplyRequest struct {
	Content       string  `json:"content" validate:"required,min=1"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
	ReplyToID     *string `json:"reply_to_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// LikeWire is one entry of a node's like-set on the wire. Both identity
// axes are included so clients can match either one.
type LikeWire struct {
	AccountID       *string `json:"account_id,omitempty"`
	EntityAccountID *string `json:"entity_account_id,omitempty"`
	LikerKind       string  `json:"liker_kind,omitempty"`
}

// CommentWire is the canonical list-shaped representation of a comment or
// reply. Replies are flat per comment; ReplyToID groups reply-to-reply
// threads for display.
type CommentWire struct {
	ID                    string        `json:"id"`
	AuthorAccountID       *string       `json:"author_account_id,omitempty"`
	AuthorEntityAccountID *string       `json:"author_entity_account_id,omitempty"`
	AuthorKind            string        `json:"author_kind,omitempty"`
	AuthorName            string        `json:"author_name"`
	AuthorAvatarURL       *string       `json:"author_avatar_url,omitempty"`
	Content               string        `json:"content"`
	AttachmentURL         *string       `json:"attachment_url,omitempty"`
	ReplyToID             *string       `json:"reply_to_id,omitempty"`
	Likes                 []LikeWire    `json:"likes,omitempty"`
	LikesCount            *int          `json:"likes_count,omitempty"`
	Liked                 *bool         `json:"liked,omitempty"`
	CanManage             *bool         `json:"can_manage,omitempty"`
	IsEdited              bool          `json:"is_edited"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
	Replies               []CommentWire `json:"replies,omitempty"`
}
