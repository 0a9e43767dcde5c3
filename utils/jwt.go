package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	JWTSecret   = []byte("qrmenu-development-secret-change-me")
	JWTIssuer   = "QRMenuAPI"
	JWTAudience = "QRMenuClients"
	TokenTTL    = 24 * time.Hour
)

// InitJWT overrides the signing settings. Empty values keep the defaults.
func InitJWT(secret, issuer, audience string, ttl time.Duration) {
	if secret != "" {
		JWTSecret = []byte(secret)
	}
	if issuer != "" {
		JWTIssuer = issuer
	}
	if audience != "" {
		JWTAudience = audience
	}
	if ttl > 0 {
		TokenTTL = ttl
	}
}

// TokenSubject is what gets signed into a token for a user.
type TokenSubject struct {
	UserID         uint
	Username       string
	Email          string
	IsAdmin        bool
	IsSuperAdmin   bool
	RestaurantID   *uint
	RestaurantSlug string
}

// CustomClaims keeps flags as strings. The subject claim carries the user id.
type CustomClaims struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsAdmin        string `json:"is_admin"`
	IsSuperAdmin   string `json:"is_super_admin"`
	RestaurantID   string `json:"restaurant_id,omitempty"`
	RestaurantSlug string `json:"restaurant_slug,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(sub TokenSubject) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(TokenTTL)

	claims := &CustomClaims{
		Username:       sub.Username,
		Email:          sub.Email,
		IsAdmin:        strconv.FormatBool(sub.IsAdmin),
		IsSuperAdmin:   strconv.FormatBool(sub.IsSuperAdmin),
		RestaurantSlug: sub.RestaurantSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(sub.UserID), 10),
			Issuer:    JWTIssuer,
			Audience:  jwt.ClaimStrings{JWTAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if sub.RestaurantID != nil {
		claims.RestaurantID = strconv.FormatUint(uint64(*sub.RestaurantID), 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(JWTIssuer),
		jwt.WithAudience(JWTAudience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
