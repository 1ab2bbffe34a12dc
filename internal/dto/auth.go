package dto

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ActAsRequest switches the session to an entity account the user owns.
// An empty EntityAccountID switches back to the personal account.
type ActAsRequest struct {
	EntityAccountID string `json:"entity_account_id"`
}

type CreateEntityRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Role      string  `json:"role" validate:"required,oneof=page performer staff"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
