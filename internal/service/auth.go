package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

const dashboardTokenDuration = 12 * time.Hour

// AuthService issues and validates dashboard access tokens.
type AuthService struct {
	jwtSecret []byte
	adminKey  string
	now       func() time.Time
}

func NewAuthService(jwtSecret, adminKey string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		adminKey:  adminKey,
		now:       time.Now,
	}
}

// CheckAdminKey compares key in constant time. An unset admin key never
// matches.
func (s *AuthService) CheckAdminKey(key string) bool {
	if s.adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) == 1
}

// IssueDashboardToken trades the admin key for a short-lived JWT the
// dashboard presents on /ws and the control endpoints.
func (s *AuthService) IssueDashboardToken(adminKey, name string) (*model.TokenResponse, error) {
	if !s.CheckAdminKey(adminKey) {
		return nil, ErrInvalidAdminKey
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "dashboard"
	}

	now := s.now()
	exp := now.Add(dashboardTokenDuration)
	claims := jwt.MapClaims{
		"sub":  "dashboard:" + uuid.NewString(),
		"name": name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign dashboard token: %w", err)
	}
	return &model.TokenResponse{AccessToken: signed, ExpiresAt: exp.Unix()}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*model.DashboardClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	return &model.DashboardClaims{Subject: sub, Name: name}, nil
}
