package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	jwtSecret  string
	accessTTL  = 15 * time.Minute
	refreshTTL = 168 * time.Hour
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func InitJWT(secret string, access, refresh time.Duration) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	jwtSecret = secret
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
	return nil
}

// GenerateTokenPair issues an access token and a longer lived refresh token
// for the same account.
func GenerateTokenPair(userID uint, email, role string) (TokenPair, error) {
	access, err := generateJWT(userID, email, role, TokenAccess, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := generateJWT(userID, email, role, TokenRefresh, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func generateJWT(userID uint, email, role, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    tokenType,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyJWT checks signature, expiry and token type, and returns the user id
// carried by the token.
func VerifyJWT(tokenString, tokenType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("Invalid token claims")
	}

	if claims["type"] != tokenType {
		return 0, errors.New("Invalid token type")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("Invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}
