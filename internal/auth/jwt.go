package auth

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"calendar-planner-api/internal/config"
)

// Settings controls how tokens are signed and checked.
type Settings struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

var (
	settingsMu sync.RWMutex
	settings   = Settings{
		Secret:   []byte(config.DefaultJWTSecret),
		Issuer:   config.DefaultIssuer,
		Audience: config.DefaultAudience,
		TTL:      config.DefaultTokenTTL,
	}
)

// Configure replaces the token settings from the loaded configuration.
func Configure(cfg config.AuthConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = Settings{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		TTL:      cfg.TokenTTL,
	}
}

func current() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// Claims represents the JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for the given user
func GenerateToken(userID, username string) (string, error) {
	s := current()
	issued := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.TTL)),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	s := current()
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != s.Issuer {
		return nil, errors.New("invalid token issuer")
	}
	if !slices.Contains(claims.Audience, s.Audience) {
		return nil, errors.New("invalid token audience")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}
