package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials from the web client. Usuario carries a
// matricula for role 1 and a clave_p for roles 2/3.
type LoginRequest struct {
	Usuario  string `json:"usuario" validate:"required"`
	Password string `json:"password" validate:"required"`
	Rol      int    `json:"rol" validate:"required"`
}

// LoginResponse returns profile fields plus an access token.
type LoginResponse struct {
	Message     string `json:"message"`
	Matricula   string `json:"matricula,omitempty"`
	ClaveP      string `json:"claveP,omitempty"`
	FirstName   string `json:"nombre"`
	LastName1   string `json:"ape1,omitempty"`
	LastName2   string `json:"ape2,omitempty"`
	Rol         int    `json:"rol"`
	AccessToken string `json:"access_token"`
}

// JWTClaims are the claims embedded in issued access tokens.
type JWTClaims struct {
	UserID string `json:"uid"`
	Role   int    `json:"rol"`
	jwt.RegisteredClaims
}
