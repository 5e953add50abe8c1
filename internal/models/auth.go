package models

import "github.com/golang-jwt/jwt/v5"

// SignUpRequest carries the signup payload.
type SignUpRequest struct {
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6"`
	Name       string      `json:"name"`
	Role       ProfileRole `json:"role"`
	SchoolID   *string     `json:"school_id"`
	ProfileURL *string     `json:"profileUrl"`
	RollNumber *string     `json:"rollnumber"`
}

// SignInRequest carries credentials for authentication.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionClaims is the JWT payload of the session token. The token
// deliberately encodes only the stable subject identity; the profile is
// looked up fresh on every protected request.
type SessionClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionUser is the token identity echoed back on auth responses.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
