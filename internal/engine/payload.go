package engine

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// rawEntry is one (key, value) pair extracted from a collection in any of
// the supported wire shapes.
type rawEntry struct {
	key   string
	value any
}

// rawComment is the loose wire record for a comment, reply or like-set
// owner. Legacy field aliases are coalesced after decoding.
type rawComment struct {
	ID                    string     `json:"id"`
	CommentID             string     `json:"comment_id"`
	AuthorAccountID       *string    `json:"author_account_id"`
	AccountID             *string    `json:"account_id"`
	AuthorEntityAccountID *string    `json:"author_entity_account_id"`
	EntityAccountID       *string    `json:"entity_account_id"`
	AuthorKind            string     `json:"author_kind"`
	AuthorName            string     `json:"author_name"`
	UserName              string     `json:"user_name"`
	AuthorAvatarURL       *string    `json:"author_avatar_url"`
	AvatarURL             *string    `json:"avatar_url"`
	Content               string     `json:"content"`
	Text                  string     `json:"text"`
	AttachmentURL         *string    `json:"attachment_url"`
	ReplyToID             *string    `json:"reply_to_id"`
	Liked                 *bool      `json:"liked"`
	LikedByViewer         *bool      `json:"liked_by_viewer"`
	LikesCount            *int       `json:"likes_count"`
	LikeCount             *int       `json:"like_count"`
	CanManage             *bool      `json:"can_manage"`
	CreatedAt             *time.Time `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at"`
	Likes                 any        `json:"likes"`
	LikedBy               any        `json:"liked_by"`
	Replies               any        `json:"replies"`
	Children              any        `json:"children"`
}

// rawLike is one loose like-set entry.
type rawLike struct {
	ID              string `json:"id"`
	AccountID       string `json:"account_id"`
	UserID          string `json:"user_id"`
	EntityAccountID string `json:"entity_account_id"`
}

// Normalize converts a raw comment collection, in any supported wire
// shape, into canonical comments with reply children. Entries that are
// not well-formed records are warned and skipped; only a wholly absent
// payload is an error. The result is unordered.
func Normalize(raw any, logger *zap.Logger) ([]*Comment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if isAbsent(raw) {
		return nil, ErrEmptyPayload
	}

	entries, ok := collectionEntries(raw)
	if !ok {
		logger.Warn("comment payload has unrecognized shape, treating as empty")
		return nil, nil
	}

	comments := make([]*Comment, 0, len(entries))
	for _, entry := range entries {
		rc, ok := entryComment(entry.value)
		if !ok {
			logger.Warn("skipping malformed comment entry", zap.String("key", entry.key))
			continue
		}

		comment := &Comment{Node: buildNode(rc, entry.key)}
		comment.Replies = normalizeReplies(rc, logger)
		comments = append(comments, comment)
	}
	return comments, nil
}

func normalizeReplies(rc rawComment, logger *zap.Logger) []*Reply {
	repliesRaw := rc.Replies
	if isAbsent(repliesRaw) {
		repliesRaw = rc.Children
	}
	if isAbsent(repliesRaw) {
		return nil
	}

	entries, ok := collectionEntries(repliesRaw)
	if !ok {
		logger.Warn("reply collection has unrecognized shape, treating as empty")
		return nil
	}

	replies := make([]*Reply, 0, len(entries))
	for _, entry := range entries {
		rr, ok := entryComment(entry.value)
		if !ok {
			logger.Warn("skipping malformed reply entry", zap.String("key", entry.key))
			continue
		}
		reply := &Reply{Node: buildNode(rr, entry.key)}
		if rr.ReplyToID != nil {
			reply.ReplyToID = normalizeID(*rr.ReplyToID)
		}
		replies = append(replies, reply)
	}
	return replies
}

// collectionEntries detects the collection shape in priority order: list,
// keyed map, dictionary via direct keys, dictionary via a forced
// serialize/deserialize round trip.
func collectionEntries(raw any) ([]rawEntry, bool) {
	switch v := raw.(type) {
	case []any:
		entries := make([]rawEntry, 0, len(v))
		for i, item := range v {
			entries = append(entries, rawEntry{key: strconv.Itoa(i), value: item})
		}
		return entries, true
	case []map[string]any:
		entries := make([]rawEntry, 0, len(v))
		for i, item := range v {
			entries = append(entries, rawEntry{key: strconv.Itoa(i), value: item})
		}
		return entries, true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]rawEntry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, rawEntry{key: k, value: v[k]})
		}
		return entries, true
	case json.RawMessage:
		return decodedEntries([]byte(v))
	case []byte:
		return decodedEntries(v)
	case string:
		return decodedEntries([]byte(v))
	default:
		// Forced round trip for host values that hide their keys
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return decodedEntries(b)
	}
}

func decodedEntries(b []byte) ([]rawEntry, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, false
	}

	var list []any
	if err := json.Unmarshal(b, &list); err == nil {
		return collectionEntries(list)
	}
	var dict map[string]any
	if err := json.Unmarshal(b, &dict); err == nil {
		return collectionEntries(dict)
	}
	return nil, false
}

// entryComment decodes a single collection entry into a loose comment
// record. Anything that is not a record fails.
func entryComment(v any) (rawComment, bool) {
	var rc rawComment

	b, ok := entryBytes(v)
	if !ok {
		return rc, false
	}
	if len(b) == 0 || b[0] != '{' {
		return rc, false
	}
	if err := json.Unmarshal(b, &rc); err != nil {
		return rc, false
	}
	return rc, true
}

func entryBytes(v any) ([]byte, bool) {
	switch value := v.(type) {
	case nil:
		return nil, false
	case json.RawMessage:
		return bytes.TrimSpace(value), true
	case []byte:
		return bytes.TrimSpace(value), true
	case string:
		// A bare string is not a record
		return nil, false
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, false
		}
		return bytes.TrimSpace(b), true
	}
}

func buildNode(rc rawComment, key string) Node {
	n := Node{
		ID:         firstNonEmpty(rc.ID, rc.CommentID, key),
		AuthorKind: rc.AuthorKind,
		AuthorName: firstNonEmpty(rc.AuthorName, rc.UserName, PlaceholderAuthorName),
		Content:    firstNonEmpty(rc.Content, rc.Text),

		serverLiked:     coalesceBool(rc.Liked, rc.LikedByViewer),
		serverLikeCount: coalesceInt(rc.LikesCount, rc.LikeCount),
		serverCanManage: rc.CanManage,
	}

	n.AuthorAccountID = normalizeID(derefString(rc.AuthorAccountID, rc.AccountID))
	n.AuthorEntityAccountID = normalizeID(derefString(rc.AuthorEntityAccountID, rc.EntityAccountID))
	n.AuthorAvatarURL = firstNonEmpty(derefString(rc.AuthorAvatarURL, rc.AvatarURL), PlaceholderAvatarURL)
	if rc.AttachmentURL != nil {
		n.AttachmentURL = *rc.AttachmentURL
	}
	if rc.CreatedAt != nil {
		n.CreatedAt = *rc.CreatedAt
	}
	if rc.UpdatedAt != nil {
		n.UpdatedAt = *rc.UpdatedAt
	}

	likesRaw := rc.Likes
	if isAbsent(likesRaw) {
		likesRaw = rc.LikedBy
	}
	n.likeSet = normalizeLikeSet(likesRaw)

	return n
}

// normalizeLikeSet accepts the like-set in any collection shape, with
// entries as bare identifier strings or records.
func normalizeLikeSet(raw any) []likeEntry {
	if isAbsent(raw) {
		return nil
	}
	entries, ok := collectionEntries(raw)
	if !ok {
		return nil
	}

	likes := make([]likeEntry, 0, len(entries))
	for _, entry := range entries {
		if s, ok := entry.value.(string); ok {
			if id := normalizeID(s); id != "" {
				likes = append(likes, likeEntry{accountID: id})
			}
			continue
		}

		b, ok := entryBytes(entry.value)
		if !ok || len(b) == 0 || b[0] != '{' {
			continue
		}
		var rl rawLike
		if err := json.Unmarshal(b, &rl); err != nil {
			continue
		}
		like := likeEntry{
			accountID:       normalizeID(firstNonEmpty(rl.AccountID, rl.UserID, rl.ID)),
			entityAccountID: normalizeID(rl.EntityAccountID),
		}
		if like.accountID == "" && like.entityAccountID == "" {
			continue
		}
		likes = append(likes, like)
	}
	return likes
}

func isAbsent(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case json.RawMessage:
		b := bytes.TrimSpace(value)
		return len(b) == 0 || bytes.Equal(b, []byte("null"))
	case []byte:
		b := bytes.TrimSpace(value)
		return len(b) == 0 || bytes.Equal(b, []byte("null"))
	case string:
		return len(bytes.TrimSpace([]byte(value))) == 0
	default:
		return false
	}
}

func derefString(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func coalesceBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func coalesceInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
