package engine

import "context"

// Draft carries everything the store needs to attribute a new comment or
// reply to the viewer.
type Draft struct {
	Content       string
	AttachmentURL string
	Identity      Identity
	AuthorKind    AuthorKind
}

// Store is the remote comment store the engine mutates through,
// independent of transport. Implementations translate their own success
// envelope; any error return is treated as failure for rollback purposes.
type Store interface {
	FetchTree(ctx context.Context, postID string) (any, error)

	CreateComment(ctx context.Context, postID string, draft Draft) error
	CreateReply(ctx context.Context, postID, commentID string, draft Draft, replyToID string) error

	UpdateComment(ctx context.Context, postID, commentID, content string) error
	UpdateReply(ctx context.Context, postID, commentID, replyID, content string) error

	DeleteComment(ctx context.Context, postID, commentID string, viewer Identity) error
	DeleteReply(ctx context.Context, postID, commentID, replyID string, viewer Identity) error

	LikeComment(ctx context.Context, postID, commentID string, viewer Identity, kind AuthorKind) error
	UnlikeComment(ctx context.Context, postID, commentID string, viewer Identity, kind AuthorKind) error
	LikeReply(ctx context.Context, postID, commentID, replyID string, viewer Identity, kind AuthorKind) error
	UnlikeReply(ctx context.Context, postID, commentID, replyID string, viewer Identity, kind AuthorKind) error
}
