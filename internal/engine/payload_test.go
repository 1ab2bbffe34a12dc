package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentRecord(id, content string, extra map[string]any) map[string]any {
	record := map[string]any{
		"id":         id,
		"content":    content,
		"created_at": time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
	for k, v := range extra {
		record[k] = v
	}
	return record
}

// treeShape flattens ids and parent/child relationships for structural
// comparison across wire shapes.
func treeShape(comments []*Comment) map[string][]string {
	shape := make(map[string][]string)
	for _, c := range comments {
		children := make([]string, 0, len(c.Replies))
		for _, r := range c.Replies {
			children = append(children, r.ID)
		}
		shape[c.ID] = children
	}
	return shape
}

func TestNormalize_ListShape(t *testing.T) {
	raw := []any{
		commentRecord("c1", "first", map[string]any{
			"replies": []any{
				commentRecord("r1", "a reply", nil),
			},
		}),
		commentRecord("c2", "second", nil),
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	shape := treeShape(comments)
	assert.Equal(t, []string{"r1"}, shape["c1"])
	assert.Empty(t, shape["c2"])
}

func TestNormalize_SameTreeAcrossShapes(t *testing.T) {
	first := commentRecord("c1", "first", map[string]any{
		"replies": map[string]any{
			"r1": commentRecord("r1", "a reply", nil),
		},
	})
	second := commentRecord("c2", "second", nil)

	asList := []any{first, second}
	asMap := map[string]any{"c1": first, "c2": second}
	asJSON, err := json.Marshal(asMap)
	require.NoError(t, err)

	fromList, err := Normalize(asList, nil)
	require.NoError(t, err)
	fromMap, err := Normalize(asMap, nil)
	require.NoError(t, err)
	fromRoundTrip, err := Normalize(json.RawMessage(asJSON), nil)
	require.NoError(t, err)

	assert.Equal(t, treeShape(fromList), treeShape(fromMap))
	assert.Equal(t, treeShape(fromMap), treeShape(fromRoundTrip))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := []any{
		commentRecord("c1", "first", map[string]any{
			"replies": []any{commentRecord("r1", "a reply", nil)},
		}),
	}

	once, err := Normalize(raw, nil)
	require.NoError(t, err)
	twice, err := Normalize(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, treeShape(once), treeShape(twice))
	assert.Equal(t, once[0].Content, twice[0].Content)
	assert.Equal(t, once[0].Replies[0].Content, twice[0].Replies[0].Content)
}

func TestNormalize_MalformedEntrySkipped(t *testing.T) {
	raw := []any{
		commentRecord("c1", "well formed", nil),
		"just a string, not a record",
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
}

func TestNormalize_MalformedReplySkipped(t *testing.T) {
	raw := []any{
		commentRecord("c1", "parent", map[string]any{
			"replies": []any{
				commentRecord("r1", "good reply", nil),
				42,
			},
		}),
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "r1", comments[0].Replies[0].ID)
}

func TestNormalize_AbsentPayload(t *testing.T) {
	_, err := Normalize(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Normalize(json.RawMessage("null"), nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestNormalize_KeyUsedWhenIDMissing(t *testing.T) {
	raw := map[string]any{
		"fallback-key": map[string]any{"content": "no id field"},
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "fallback-key", comments[0].ID)
}

func TestNormalize_PlaceholderAuthorFields(t *testing.T) {
	raw := []any{
		map[string]any{"id": "c1", "content": "anonymous"},
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, PlaceholderAuthorName, comments[0].AuthorName)
	assert.Equal(t, PlaceholderAvatarURL, comments[0].AuthorAvatarURL)
}

func TestNormalize_LegacyFieldAliases(t *testing.T) {
	raw := []any{
		map[string]any{
			"comment_id": "c1",
			"text":       "legacy text field",
			"user_name":  "Old Client",
			"account_id": "ACC-1",
			"children": []any{
				map[string]any{"comment_id": "r1", "text": "legacy reply"},
			},
		},
	}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "legacy text field", comments[0].Content)
	assert.Equal(t, "Old Client", comments[0].AuthorName)
	assert.Equal(t, "acc-1", comments[0].AuthorAccountID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "r1", comments[0].Replies[0].ID)
}

func TestNormalize_ForcedRoundTripShape(t *testing.T) {
	type hostCollection struct {
		C1 map[string]any `json:"c1"`
	}
	raw := hostCollection{C1: commentRecord("c1", "via round trip", nil)}

	comments, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
}
