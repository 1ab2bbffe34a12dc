package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// attempt runs one optimistic mutation: apply the local change, issue the
// remote call, revert to the captured pre-mutation state on failure.
func attempt(apply func(), call func() error, revert func()) error {
	apply()
	if err := call(); err != nil {
		revert()
		return err
	}
	return nil
}

// ToggleLike flips the viewer's like on a comment (empty replyID) or
// reply, optimistically. The pre-mutation (flag, count) pair is restored
// verbatim on failure, never re-inverted. A second toggle on the same
// node while a call is in flight is rejected.
func (e *Engine) ToggleLike(ctx context.Context, commentID, replyID string) error {
	n, _, err := e.find(commentID, replyID)
	if err != nil {
		return err
	}

	key := nodeKey(commentID, replyID)
	if _, busy := e.likesInFlight[key]; busy {
		return ErrMutationInFlight
	}
	e.likesInFlight[key] = struct{}{}
	defer delete(e.likesInFlight, key)

	prevLiked, prevCount := n.LikedByViewer, n.LikeCount
	call := func() error {
		switch {
		case prevLiked && replyID == "":
			return e.store.UnlikeComment(ctx, e.postID, commentID, e.identity, e.authorKind)
		case prevLiked:
			return e.store.UnlikeReply(ctx, e.postID, commentID, replyID, e.identity, e.authorKind)
		case replyID == "":
			return e.store.LikeComment(ctx, e.postID, commentID, e.identity, e.authorKind)
		default:
			return e.store.LikeReply(ctx, e.postID, commentID, replyID, e.identity, e.authorKind)
		}
	}

	err = attempt(
		func() {
			if prevLiked {
				n.LikedByViewer = false
				if n.LikeCount > 0 {
					n.LikeCount--
				}
			} else {
				n.LikedByViewer = true
				n.LikeCount++
			}
		},
		call,
		func() {
			n.LikedByViewer, n.LikeCount = prevLiked, prevCount
		},
	)
	if err != nil {
		e.log.Warn("like toggle rolled back",
			zap.String("node", key),
			zap.Error(err))
	}
	return err
}

// AddComment submits a new top-level comment. The composer draft is
// cleared and the tree reloaded (after a settle delay) only on success;
// on failure the draft stays populated for retry.
func (e *Engine) AddComment(ctx context.Context, content, attachmentURL string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	draft := Draft{
		Content:       content,
		AttachmentURL: attachmentURL,
		Identity:      e.identity,
		AuthorKind:    e.authorKind,
	}
	if err := e.store.CreateComment(ctx, e.postID, draft); err != nil {
		return err
	}

	e.commentDraft = ""
	e.waitSettle(ctx)
	return e.Reload(ctx)
}

// AddReply submits a reply under a comment. replyToID may name another
// reply of the same comment for display nesting.
func (e *Engine) AddReply(ctx context.Context, commentID, content, replyToID string) error {
	if _, _, err := e.find(commentID, ""); err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	draft := Draft{
		Content:    content,
		Identity:   e.identity,
		AuthorKind: e.authorKind,
	}
	if err := e.store.CreateReply(ctx, e.postID, commentID, draft, replyToID); err != nil {
		return err
	}

	delete(e.replyDrafts, commentID)
	e.waitSettle(ctx)
	return e.Reload(ctx)
}

// Edit replaces a node's content. The node is only touched after the
// store confirms; on failure the edit draft survives for retry.
func (e *Engine) Edit(ctx context.Context, commentID, replyID, content string) error {
	n, _, err := e.find(commentID, replyID)
	if err != nil {
		return err
	}
	if !CanManage(n, e.identity) {
		return ErrNotAuthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	if replyID == "" {
		err = e.store.UpdateComment(ctx, e.postID, commentID, content)
	} else {
		err = e.store.UpdateReply(ctx, e.postID, commentID, replyID, content)
	}
	if err != nil {
		return err
	}

	n.Content = content
	n.UpdatedAt = time.Now()
	delete(e.editDrafts, nodeID(commentID, replyID))
	return nil
}

// Delete removes a node after the store confirms. Deleting a comment
// removes its replies in the same update, and all UI sub-state keyed by
// the removed ids is scrubbed so stale keys cannot leak into later
// toggles. Requires a resolvable entity identity; an unattributable
// delete is refused without a call.
func (e *Engine) Delete(ctx context.Context, commentID, replyID string) error {
	n, parent, err := e.find(commentID, replyID)
	if err != nil {
		return err
	}
	if !CanManage(n, e.identity) {
		return ErrNotAuthorized
	}
	if e.identity.EntityAccountID == "" {
		return ErrIdentityUnresolved
	}

	if replyID == "" {
		err = e.store.DeleteComment(ctx, e.postID, commentID, e.identity)
	} else {
		err = e.store.DeleteReply(ctx, e.postID, commentID, replyID, e.identity)
	}
	if err != nil {
		return err
	}

	if replyID == "" {
		removed := make([]string, 0, len(parent.Replies)+1)
		removed = append(removed, commentID)
		for _, r := range parent.Replies {
			removed = append(removed, r.ID)
		}

		kept := make([]*Comment, 0, len(e.comments))
		for _, c := range e.comments {
			if c.ID != commentID {
				kept = append(kept, c)
			}
		}
		e.comments = kept
		e.scrub(removed)
	} else {
		kept := make([]*Reply, 0, len(parent.Replies))
		for _, r := range parent.Replies {
			if r.ID != replyID {
				kept = append(kept, r)
			}
		}
		parent.Replies = kept
		e.scrub([]string{replyID})
	}
	return nil
}

func (e *Engine) scrub(ids []string) {
	for _, id := range ids {
		delete(e.replyDrafts, id)
		delete(e.editDrafts, id)
		for key := range e.likesInFlight {
			if key == id || strings.HasPrefix(key, id+"/") || strings.HasSuffix(key, "/"+id) {
				delete(e.likesInFlight, key)
			}
		}
	}
}

func nodeKey(commentID, replyID string) string {
	if replyID == "" {
		return commentID
	}
	return commentID + "/" + replyID
}

func nodeID(commentID, replyID string) string {
	if replyID == "" {
		return commentID
	}
	return replyID
}
