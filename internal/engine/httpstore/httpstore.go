// Package httpstore implements the engine's Store against the comment
// REST API. Success is recognized from the standard response envelope:
// `success: true` or a present `data` field; anything else, including
// transport errors, reads as failure.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smoker-app/backend/internal/engine"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTokenSource sets the bearer-token callback. The token carries the
// acting identity; the server resolves the actor from it.
func WithTokenSource(token func() string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("comment store: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("comment store: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comment store: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("comment store: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("comment store: unrecognized response (status %d)", resp.StatusCode)
	}

	hasData := len(env.Data) > 0 && !bytes.Equal(bytes.TrimSpace(env.Data), []byte("null"))
	if !env.Success && !hasData {
		if env.Error != nil {
			return nil, fmt.Errorf("comment store: %s: %s", env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("comment store: request failed (status %d)", resp.StatusCode)
	}
	return env.Data, nil
}

func (c *Client) FetchTree(ctx context.Context, postID string) (any, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+postID+"/comments", nil)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) CreateComment(ctx context.Context, postID string, draft engine.Draft) error {
	body := map[string]any{"content": draft.Content}
	if draft.AttachmentURL != "" {
		body["attachment_url"] = draft.AttachmentURL
	}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/comments", body)
	return err
}

func (c *Client) CreateReply(ctx context.Context, postID, commentID string, draft engine.Draft, replyToID string) error {
	body := map[string]any{"content": draft.Content}
	if draft.AttachmentURL != "" {
		body["attachment_url"] = draft.AttachmentURL
	}
	if replyToID != "" {
		body["reply_to_id"] = replyToID
	}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/comments/"+commentID+"/replies", body)
	return err
}

func (c *Client) UpdateComment(ctx context.Context, postID, commentID, content string) error {
	_, err := c.do(ctx, http.MethodPatch, "/api/v1/posts/"+postID+"/comments/"+commentID,
		map[string]any{"content": content})
	return err
}

func (c *Client) UpdateReply(ctx context.Context, postID, commentID, replyID, content string) error {
	_, err := c.do(ctx, http.MethodPatch,
		"/api/v1/posts/"+postID+"/comments/"+commentID+"/replies/"+replyID,
		map[string]any{"content": content})
	return err
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string, viewer engine.Identity) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/posts/"+postID+"/comments/"+commentID, nil)
	return err
}

func (c *Client) DeleteReply(ctx context.Context, postID, commentID, replyID string, viewer engine.Identity) error {
	_, err := c.do(ctx, http.MethodDelete,
		"/api/v1/posts/"+postID+"/comments/"+commentID+"/replies/"+replyID, nil)
	return err
}

func (c *Client) LikeComment(ctx context.Context, postID, commentID string, viewer engine.Identity, kind engine.AuthorKind) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/comments/"+commentID+"/like",
		map[string]any{"liker_kind": string(kind)})
	return err
}

func (c *Client) UnlikeComment(ctx context.Context, postID, commentID string, viewer engine.Identity, kind engine.AuthorKind) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/posts/"+postID+"/comments/"+commentID+"/like", nil)
	return err
}

func (c *Client) LikeReply(ctx context.Context, postID, commentID, replyID string, viewer engine.Identity, kind engine.AuthorKind) error {
	_, err := c.do(ctx, http.MethodPost,
		"/api/v1/posts/"+postID+"/comments/"+commentID+"/replies/"+replyID+"/like",
		map[string]any{"liker_kind": string(kind)})
	return err
}

func (c *Client) UnlikeReply(ctx context.Context, postID, commentID, replyID string, viewer engine.Identity, kind engine.AuthorKind) error {
	_, err := c.do(ctx, http.MethodDelete,
		"/api/v1/posts/"+postID+"/comments/"+commentID+"/replies/"+replyID+"/like", nil)
	return err
}

var _ engine.Store = (*Client)(nil)
