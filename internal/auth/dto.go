package auth

import "github.com/angelmondragon/pricepanel-backend/pkg/enums"

// LoginRequest captures the operator credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token for the admin API.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Email       string          `json:"email"`
	Role        enums.AdminRole `json:"role"`
}
