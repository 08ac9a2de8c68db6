package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWT issues and verifies the bearer tokens used by the API. The signing
// key and validity window come from configuration, constructed once at
// startup and passed down.
type JWT struct {
	tokenAuth *jwtauth.JWTAuth
	expiry    time.Duration
}

func NewJWT(key []byte, expiry time.Duration) *JWT {
	return &JWT{
		tokenAuth: jwtauth.New("HS256", key, nil),
		expiry:    expiry,
	}
}

// TokenAuth exposes the underlying verifier for the router middleware.
func (j *JWT) TokenAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWT) GenerateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(j.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, used by the auth middleware
func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
