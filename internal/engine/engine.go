package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Engine owns the canonical comment tree for one open post view. It is
// the single source of truth for rendering that view; the tree is
// rebuilt from scratch on every reload and discarded with the view.
//
// The engine is not safe for concurrent use. All calls are expected from
// the single goroutine driving the view, matching the cooperative
// scheduling of the client it serves.
type Engine struct {
	store  Store
	log    *zap.Logger
	postID string

	identity   Identity
	authorKind AuthorKind

	order  Order
	settle time.Duration

	comments []*Comment

	commentDraft  string
	replyDrafts   map[string]string
	editDrafts    map[string]string
	likesInFlight map[string]struct{}
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSettleDelay overrides the pause between a confirmed create and the
// follow-up reload. The store is not guaranteed to be read-consistent
// immediately after a write.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) { e.settle = d }
}

func WithOrder(order Order) Option {
	return func(e *Engine) { e.order = order }
}

func New(store Store, postID string, session Session, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		log:           zap.NewNop(),
		postID:        postID,
		order:         NewestFirst,
		settle:        400 * time.Millisecond,
		replyDrafts:   make(map[string]string),
		editDrafts:    make(map[string]string),
		likesInFlight: make(map[string]struct{}),
	}
	e.setSession(session)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) setSession(s Session) {
	e.identity = ResolveIdentity(s)
	role := ""
	if s.ActiveEntity != nil {
		role = s.ActiveEntity.Role
	}
	e.authorKind = AuthorKindForRole(role)
}

// IdentityChanged handles the ambient role-switch signal: the viewer
// identity is recomputed and the tree reloaded under the new viewer.
func (e *Engine) IdentityChanged(ctx context.Context, s Session) error {
	e.setSession(s)
	return e.Reload(ctx)
}

func (e *Engine) Identity() Identity {
	return e.identity
}

func (e *Engine) Comments() []*Comment {
	return e.comments
}

// SetOrder re-sorts the already-resolved tree without refetching.
func (e *Engine) SetOrder(order Order) {
	if order == e.order {
		return
	}
	e.order = order
	SortTree(e.comments, order)
}

func (e *Engine) Order() Order {
	return e.order
}

// Load builds the canonical tree for the first time.
func (e *Engine) Load(ctx context.Context) error {
	return e.Reload(ctx)
}

// Reload rebuilds the canonical tree from scratch: fetch, normalize,
// resolve like state, sort. The new tree replaces the old one only after
// it is fully built, so readers never observe a half-updated tree.
// Reloads are idempotent and safe to trigger redundantly.
func (e *Engine) Reload(ctx context.Context) error {
	raw, err := e.store.FetchTree(ctx, e.postID)
	if err != nil {
		return err
	}

	comments, err := Normalize(raw, e.log)
	if err != nil {
		if errors.Is(err, ErrEmptyPayload) {
			e.log.Warn("comment payload absent, tree is empty", zap.String("post_id", e.postID))
			e.comments = nil
			return nil
		}
		return err
	}

	ResolveLikeState(comments, e.identity)
	SortTree(comments, e.order)
	e.comments = comments
	return nil
}

// CanManage reports whether the viewer may edit/delete the given node.
func (e *Engine) CanManage(commentID, replyID string) bool {
	n, _, err := e.find(commentID, replyID)
	if err != nil {
		return false
	}
	return CanManage(n, e.identity)
}

// find locates a node. An empty replyID addresses the comment itself.
func (e *Engine) find(commentID, replyID string) (*Node, *Comment, error) {
	for _, c := range e.comments {
		if c.ID != commentID {
			continue
		}
		if replyID == "" {
			return &c.Node, c, nil
		}
		for _, r := range c.Replies {
			if r.ID == replyID {
				return &r.Node, c, nil
			}
		}
		return nil, nil, ErrNodeNotFound
	}
	return nil, nil, ErrNodeNotFound
}

// Draft accessors keep the per-view UI sub-state (open composer boxes)
// inside the engine so deletes can scrub it together with the tree.

func (e *Engine) SetCommentDraft(text string) { e.commentDraft = text }
func (e *Engine) CommentDraft() string        { return e.commentDraft }

func (e *Engine) SetReplyDraft(commentID, text string) { e.replyDrafts[commentID] = text }
func (e *Engine) ReplyDraft(commentID string) string   { return e.replyDrafts[commentID] }

func (e *Engine) SetEditDraft(nodeID, text string) { e.editDrafts[nodeID] = text }
func (e *Engine) EditDraft(nodeID string) string   { return e.editDrafts[nodeID] }

func (e *Engine) waitSettle(ctx context.Context) {
	if e.settle <= 0 {
		return
	}
	timer := time.NewTimer(e.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
