package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

type Claims struct {
	UserID string `json:"userID"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func accessSecret() []byte  { return []byte(os.Getenv("ACCESS_TOKEN_SECRET")) }
func refreshSecret() []byte { return []byte(os.Getenv("REFRESH_TOKEN_SECRET")) }

func ttlMinutes(envKey string, fallback int) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}

// AccessTokenTTL defaults to 15 minutes, ACCESS_TOKEN_TTL_MIN overrides.
func AccessTokenTTL() time.Duration { return ttlMinutes("ACCESS_TOKEN_TTL_MIN", 15) }

// RefreshTokenTTL defaults to 10 days, REFRESH_TOKEN_TTL_MIN overrides.
func RefreshTokenTTL() time.Duration { return ttlMinutes("REFRESH_TOKEN_TTL_MIN", 10*24*60) }

func GenerateAccessToken(userID, role string) (string, error) {
	return signToken(userID, role, AccessTokenTTL(), accessSecret())
}

// GenerateRefreshToken carries only the user id; the role is re-read from the
// user document when the pair is rotated.
func GenerateRefreshToken(userID string) (string, error) {
	return signToken(userID, "", RefreshTokenTTL(), refreshSecret())
}

func signToken(userID, role string, ttl time.Duration, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret not configured")
	}
	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "urbannest",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, accessSecret())
}

func ValidateRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, refreshSecret())
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		// ParseWithClaims wraps failures in a *jwt.ValidationError.
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
			return nil, errors.New("invalid token signature")
		}
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
