package models

import "github.com/golang-jwt/jwt/v5"

// CustomClaims represents the custom claims in our JWT tokens
type CustomClaims struct {
	jwt.RegisteredClaims
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
