package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting an admin JWT.
type AccessTokenPayload struct {
	Subject string
	Role    enums.AdminRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to admin clients.
type AccessTokenClaims struct {
	Role enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
