package dto

type CreatePostRequest struct {
	Content string   `json:"content" validate:"required,min=1"`
	Tags    []string `json:"tags,omitempty"`
}
