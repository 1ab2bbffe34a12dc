package engine

import "time"

// Fixed fallbacks for missing author display data. Rendering never blocks
// on incomplete author records.
const (
	PlaceholderAuthorName = "Guest"
	PlaceholderAvatarURL  = "/images/default-avatar.png"
)

// Node holds the canonical fields shared by comments and replies.
// Identifier fields are lower-cased at normalization time; an empty string
// means the value was absent on the wire.
type Node struct {
	ID                    string
	AuthorAccountID       string
	AuthorEntityAccountID string
	AuthorKind            string
	AuthorName            string
	AuthorAvatarURL       string
	Content               string
	AttachmentURL         string
	LikeCount             int
	LikedByViewer         bool
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Server-asserted values, kept so the like-state resolver and the
	// permission gate can prefer them over local computation.
	serverLiked     *bool
	serverLikeCount *int
	serverCanManage *bool
	likeSet         []likeEntry
}

// Comment is a top-level node owning a flat list of replies.
type Comment struct {
	Node
	Replies []*Reply
}

// Reply belongs to exactly one Comment. ReplyToID may point at another
// reply for display nesting; ownership and deletion scope stay with the
// parent comment.
type Reply struct {
	Node
	ReplyToID string
}

// likeEntry is one normalized member of a node's like-set.
type likeEntry struct {
	accountID       string
	entityAccountID string
}
