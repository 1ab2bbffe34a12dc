package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

var fakeBase = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// fakeStore is an in-memory Store. Created records land in the payload so
// a reload observes them, the way a real backend would.
type fakeStore struct {
	comments []map[string]any
	fetches  int
	seq      int

	rawPayload any
	useRaw     bool

	likeErr   error
	createErr error
	updateErr error
	deleteErr error

	likeHook func() error

	likeCalls   int
	unlikeCalls int
	createCalls int
	deleteCalls int
}

func (s *fakeStore) FetchTree(ctx context.Context, postID string) (any, error) {
	s.fetches++
	if s.useRaw {
		return s.rawPayload, nil
	}
	return s.comments, nil
}

func (s *fakeStore) record(id, content string) map[string]any {
	s.seq++
	return map[string]any{
		"id":         id,
		"content":    content,
		"created_at": fakeBase.Add(time.Duration(100+s.seq) * time.Minute).Format(time.RFC3339),
	}
}

func (s *fakeStore) CreateComment(ctx context.Context, postID string, draft Draft) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	rec := s.record(fmt.Sprintf("new-%d", s.seq+1), draft.Content)
	rec["author_account_id"] = draft.Identity.AccountID
	s.comments = append(s.comments, rec)
	return nil
}

func (s *fakeStore) CreateReply(ctx context.Context, postID, commentID string, draft Draft, replyToID string) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	for _, c := range s.comments {
		if c["id"] != commentID {
			continue
		}
		rec := s.record(fmt.Sprintf("new-%d", s.seq+1), draft.Content)
		if replyToID != "" {
			rec["reply_to_id"] = replyToID
		}
		replies, _ := c["replies"].([]any)
		c["replies"] = append(replies, rec)
		return nil
	}
	return errors.New("no such comment")
}

func (s *fakeStore) UpdateComment(ctx context.Context, postID, commentID, content string) error {
	return s.updateErr
}

func (s *fakeStore) UpdateReply(ctx context.Context, postID, commentID, replyID, content string) error {
	return s.updateErr
}

func (s *fakeStore) DeleteComment(ctx context.Context, postID, commentID string, viewer Identity) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *fakeStore) DeleteReply(ctx context.Context, postID, commentID, replyID string, viewer Identity) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *fakeStore) LikeComment(ctx context.Context, postID, commentID string, viewer Identity, kind AuthorKind) error {
	return s.like()
}

func (s *fakeStore) UnlikeComment(ctx context.Context, postID, commentID string, viewer Identity, kind AuthorKind) error {
	return s.unlike()
}

func (s *fakeStore) LikeReply(ctx context.Context, postID, commentID, replyID string, viewer Identity, kind AuthorKind) error {
	return s.like()
}

func (s *fakeStore) UnlikeReply(ctx context.Context, postID, commentID, replyID string, viewer Identity, kind AuthorKind) error {
	return s.unlike()
}

func (s *fakeStore) like() error {
	s.likeCalls++
	if s.likeHook != nil {
		if err := s.likeHook(); err != nil {
			return err
		}
	}
	return s.likeErr
}

func (s *fakeStore) unlike() error {
	s.unlikeCalls++
	if s.likeHook != nil {
		if err := s.likeHook(); err != nil {
			return err
		}
	}
	return s.likeErr
}

var _ Store = (*fakeStore)(nil)

func viewerSession(accountID string) Session {
	return Session{Account: &SessionAccount{ID: accountID}}
}

func entitySession(accountID, entityAccountID string) Session {
	return Session{
		Account:      &SessionAccount{ID: accountID},
		ActiveEntity: &SessionEntity{EntityAccountID: entityAccountID, Role: "page"},
	}
}

func loadedEngine(t *testing.T, store *fakeStore, session Session) *Engine {
	t.Helper()
	e := New(store, "post-1", session, WithSettleDelay(0))
	require.NoError(t, e.Load(context.Background()))
	return e
}

func TestToggleLike_Optimistic(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "hi", "likes": []any{"other"}},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	require.NoError(t, e.ToggleLike(context.Background(), "c1", ""))

	c := e.Comments()[0]
	assert.True(t, c.LikedByViewer)
	assert.Equal(t, 2, c.LikeCount)
	assert.Equal(t, 1, store.likeCalls)
	assert.Equal(t, 1, store.fetches, "like must not trigger a refetch")

	require.NoError(t, e.ToggleLike(context.Background(), "c1", ""))
	assert.False(t, c.LikedByViewer)
	assert.Equal(t, 1, c.LikeCount)
	assert.Equal(t, 1, store.unlikeCalls)
}

func TestToggleLike_RollbackRestoresExactPair(t *testing.T) {
	store := &fakeStore{
		comments: []map[string]any{
			{"id": "c1", "content": "hi", "likes_count": 5, "liked": false},
		},
		likeErr: errStoreDown,
	}
	e := loadedEngine(t, store, viewerSession("acc-1"))
	c := e.Comments()[0]
	require.False(t, c.LikedByViewer)
	require.Equal(t, 5, c.LikeCount)

	err := e.ToggleLike(context.Background(), "c1", "")
	require.ErrorIs(t, err, errStoreDown)

	assert.False(t, c.LikedByViewer)
	assert.Equal(t, 5, c.LikeCount)
}

func TestToggleLike_UnlikeClampsAtZero(t *testing.T) {
	// Inconsistent server state: flagged as liked with a zero count.
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "hi", "liked": true, "likes_count": 0},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	require.NoError(t, e.ToggleLike(context.Background(), "c1", ""))

	c := e.Comments()[0]
	assert.False(t, c.LikedByViewer)
	assert.Equal(t, 0, c.LikeCount)
}

func TestToggleLike_RollbackAfterClamp(t *testing.T) {
	store := &fakeStore{
		comments: []map[string]any{
			{"id": "c1", "content": "hi", "liked": true, "likes_count": 0},
		},
		likeErr: errStoreDown,
	}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	err := e.ToggleLike(context.Background(), "c1", "")
	require.ErrorIs(t, err, errStoreDown)

	// The captured pair is restored verbatim, not re-inverted.
	c := e.Comments()[0]
	assert.True(t, c.LikedByViewer)
	assert.Equal(t, 0, c.LikeCount)
}

func TestToggleLike_ReplyNode(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "hi", "replies": []any{
			map[string]any{"id": "r1", "content": "yo", "likes": []any{}},
		}},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	require.NoError(t, e.ToggleLike(context.Background(), "c1", "r1"))

	r := e.Comments()[0].Replies[0]
	assert.True(t, r.LikedByViewer)
	assert.Equal(t, 1, r.LikeCount)
}

func TestToggleLike_RejectsReentrantToggle(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "hi"},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	var reentrantErr error
	store.likeHook = func() error {
		reentrantErr = e.ToggleLike(context.Background(), "c1", "")
		return nil
	}

	require.NoError(t, e.ToggleLike(context.Background(), "c1", ""))
	assert.ErrorIs(t, reentrantErr, ErrMutationInFlight)
	assert.Equal(t, 1, store.likeCalls)
}

func TestToggleLike_UnknownNode(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{{"id": "c1", "content": "hi"}}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	assert.ErrorIs(t, e.ToggleLike(context.Background(), "missing", ""), ErrNodeNotFound)
	assert.ErrorIs(t, e.ToggleLike(context.Background(), "c1", "missing"), ErrNodeNotFound)
	assert.Zero(t, store.likeCalls)
}

func TestAddComment_AppearsAfterReload(t *testing.T) {
	store := &fakeStore{}
	store.comments = []map[string]any{
		store.record("c1", "first"),
		store.record("c2", "second"),
	}
	e := loadedEngine(t, store, viewerSession("acc-1"))
	require.Len(t, e.Comments(), 2)

	e.SetCommentDraft("  hello  ")
	require.NoError(t, e.AddComment(context.Background(), e.CommentDraft(), ""))

	require.Len(t, e.Comments(), 3)
	assert.Equal(t, "hello", e.Comments()[0].Content, "newest-first puts the new comment on top")
	assert.Empty(t, e.CommentDraft())
	assert.Equal(t, 2, store.fetches)
}

func TestAddComment_EmptyContentRejectedLocally(t *testing.T) {
	store := &fakeStore{}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	e.SetCommentDraft("   ")
	err := e.AddComment(context.Background(), e.CommentDraft(), "")

	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, store.createCalls)
	assert.Equal(t, "   ", e.CommentDraft(), "draft survives a local rejection")
}

func TestAddComment_FailureKeepsDraft(t *testing.T) {
	store := &fakeStore{createErr: errStoreDown}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	e.SetCommentDraft("hello")
	err := e.AddComment(context.Background(), e.CommentDraft(), "")

	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "hello", e.CommentDraft())
	assert.Equal(t, 1, store.fetches, "no reload after a failed create")
}

func TestAddReply_AppearsUnderParent(t *testing.T) {
	store := &fakeStore{}
	store.comments = []map[string]any{store.record("c1", "parent")}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	e.SetReplyDraft("c1", "a reply")
	require.NoError(t, e.AddReply(context.Background(), "c1", e.ReplyDraft("c1"), ""))

	require.Len(t, e.Comments(), 1)
	require.Len(t, e.Comments()[0].Replies, 1)
	assert.Equal(t, "a reply", e.Comments()[0].Replies[0].Content)
	assert.Empty(t, e.ReplyDraft("c1"))
}

func TestAddReply_UnknownParent(t *testing.T) {
	store := &fakeStore{}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	err := e.AddReply(context.Background(), "missing", "text", "")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Zero(t, store.createCalls)
}

func TestEdit_UpdatesNodeAndClearsDraft(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "before", "author_account_id": "acc-1"},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	e.SetEditDraft("c1", "after")
	require.NoError(t, e.Edit(context.Background(), "c1", "", e.EditDraft("c1")))

	c := e.Comments()[0]
	assert.Equal(t, "after", c.Content)
	assert.False(t, c.UpdatedAt.IsZero())
	assert.Empty(t, e.EditDraft("c1"))
}

func TestEdit_RequiresOwnership(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "before", "author_account_id": "someone-else"},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	err := e.Edit(context.Background(), "c1", "", "after")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, "before", e.Comments()[0].Content)
}

func TestEdit_FailureLeavesNodeAndDraft(t *testing.T) {
	store := &fakeStore{
		comments: []map[string]any{
			{"id": "c1", "content": "before", "author_account_id": "acc-1"},
		},
		updateErr: errStoreDown,
	}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	e.SetEditDraft("c1", "after")
	err := e.Edit(context.Background(), "c1", "", e.EditDraft("c1"))

	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "before", e.Comments()[0].Content)
	assert.Equal(t, "after", e.EditDraft("c1"))
}

func TestDelete_CommentCascadesAndScrubs(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{
			"id": "c1", "content": "parent", "author_entity_account_id": "ent-1",
			"replies": []any{
				map[string]any{"id": "r1", "content": "child"},
			},
		},
		{"id": "c2", "content": "other"},
	}}
	e := loadedEngine(t, store, entitySession("acc-1", "ent-1"))

	e.SetReplyDraft("c1", "half-typed reply")
	e.SetEditDraft("r1", "half-typed edit")
	e.likesInFlight["c1/r1"] = struct{}{}

	require.NoError(t, e.Delete(context.Background(), "c1", ""))

	require.Len(t, e.Comments(), 1)
	assert.Equal(t, "c2", e.Comments()[0].ID)
	assert.Empty(t, e.ReplyDraft("c1"))
	assert.Empty(t, e.EditDraft("r1"))
	assert.Empty(t, e.likesInFlight)
}

func TestDelete_ReplyLeavesParent(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{
			"id": "c1", "content": "parent",
			"replies": []any{
				map[string]any{"id": "r1", "content": "mine", "author_entity_account_id": "ent-1"},
				map[string]any{"id": "r2", "content": "other"},
			},
		},
	}}
	e := loadedEngine(t, store, entitySession("acc-1", "ent-1"))

	require.NoError(t, e.Delete(context.Background(), "c1", "r1"))

	require.Len(t, e.Comments(), 1)
	require.Len(t, e.Comments()[0].Replies, 1)
	assert.Equal(t, "r2", e.Comments()[0].Replies[0].ID)
}

func TestDelete_PersonalViewerDeletesOwnComment(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "mine", "author_account_id": "acc-1"},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))

	// No active entity: the entity axis falls back to the account id, so
	// the delete is still attributable.
	require.NoError(t, e.Delete(context.Background(), "c1", ""))
	assert.Equal(t, 1, store.deleteCalls)
	assert.Empty(t, e.Comments())
}

func TestDelete_RequiresResolvedIdentity(t *testing.T) {
	// Server grants manage rights, but with no session at all there is no
	// identity to attribute the delete to.
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "moderated", "can_manage": true},
	}}
	e := loadedEngine(t, store, Session{})

	err := e.Delete(context.Background(), "c1", "")
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
	assert.Zero(t, store.deleteCalls)
	assert.Len(t, e.Comments(), 1)
}

func TestDelete_FailureLeavesTree(t *testing.T) {
	store := &fakeStore{
		comments: []map[string]any{
			{"id": "c1", "content": "mine", "author_entity_account_id": "ent-1"},
		},
		deleteErr: errStoreDown,
	}
	e := loadedEngine(t, store, entitySession("acc-1", "ent-1"))

	err := e.Delete(context.Background(), "c1", "")
	require.ErrorIs(t, err, errStoreDown)
	assert.Len(t, e.Comments(), 1)
}

func TestEngine_SetOrderWithoutRefetch(t *testing.T) {
	store := &fakeStore{}
	store.comments = []map[string]any{
		store.record("c1", "first"),
		store.record("c2", "second"),
		store.record("c3", "third"),
	}
	e := loadedEngine(t, store, viewerSession("acc-1"))
	require.Equal(t, "c3", e.Comments()[0].ID)

	e.SetOrder(OldestFirst)
	assert.Equal(t, "c1", e.Comments()[0].ID)
	assert.Equal(t, 1, store.fetches)

	e.SetOrder(NewestFirst)
	assert.Equal(t, "c3", e.Comments()[0].ID)
	assert.Equal(t, 1, store.fetches)
}

func TestEngine_IdentityChangedReloadsUnderNewViewer(t *testing.T) {
	store := &fakeStore{comments: []map[string]any{
		{"id": "c1", "content": "hi", "likes": []any{"acc-2"}},
	}}
	e := loadedEngine(t, store, viewerSession("acc-1"))
	require.False(t, e.Comments()[0].LikedByViewer)

	require.NoError(t, e.IdentityChanged(context.Background(), viewerSession("acc-2")))

	assert.Equal(t, 2, store.fetches)
	assert.True(t, e.Comments()[0].LikedByViewer)
	assert.Equal(t, "acc-2", e.Identity().AccountID)
}

func TestEngine_AbsentPayloadReadsAsEmptyTree(t *testing.T) {
	store := &fakeStore{useRaw: true, rawPayload: nil}
	e := New(store, "post-1", viewerSession("acc-1"), WithSettleDelay(0))

	require.NoError(t, e.Load(context.Background()))
	assert.Empty(t, e.Comments())
}
