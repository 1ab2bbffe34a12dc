package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smoker-app/backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTree_ReturnsDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/posts/p1/comments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"c1","content":"hi"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	raw, err := client.FetchTree(context.Background(), "p1")
	require.NoError(t, err)

	comments, err := engine.Normalize(raw, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
}

func TestDo_DataWithoutSuccessFlagReadsAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some endpoints omit the success flag and just return data
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchTree(context.Background(), "p1")
	assert.NoError(t, err)
}

func TestDo_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"FORBIDDEN","message":"not yours"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.DeleteComment(context.Background(), "p1", "c1", engine.Identity{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORBIDDEN")
	assert.Contains(t, err.Error(), "not yours")
}

func TestDo_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchTree(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateComment_SendsBodyAndToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, WithTokenSource(func() string { return "tok-123" }))
	draft := engine.Draft{Content: "hello", AttachmentURL: "https://cdn/a.png"}
	require.NoError(t, client.CreateComment(context.Background(), "p1", draft))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "hello", gotBody["content"])
	assert.Equal(t, "https://cdn/a.png", gotBody["attachment_url"])
}

func TestLikeRoutes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	ctx := context.Background()
	viewer := engine.Identity{AccountID: "acc-1"}

	require.NoError(t, client.LikeComment(ctx, "p1", "c1", viewer, engine.KindPersonal))
	require.NoError(t, client.UnlikeComment(ctx, "p1", "c1", viewer, engine.KindPersonal))
	require.NoError(t, client.LikeReply(ctx, "p1", "c1", "r1", viewer, engine.KindPersonal))
	require.NoError(t, client.UnlikeReply(ctx, "p1", "c1", "r1", viewer, engine.KindPersonal))

	assert.Equal(t, []call{
		{http.MethodPost, "/api/v1/posts/p1/comments/c1/like"},
		{http.MethodDelete, "/api/v1/posts/p1/comments/c1/like"},
		{http.MethodPost, "/api/v1/posts/p1/comments/c1/replies/r1/like"},
		{http.MethodDelete, "/api/v1/posts/p1/comments/c1/replies/r1/like"},
	}, calls)
}
