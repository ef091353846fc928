package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"neuroassess/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenScope   = errors.New("token not valid for this session")
)

// AuthService issues and validates session-scoped participant tokens
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueParticipantToken creates a token scoped to one session
func (s *AuthService) IssueParticipantToken(sessionID string) (string, error) {
	now := s.now()
	claims := &model.ParticipantClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateParticipantToken validates a participant JWT and returns claims
func (s *AuthService) ValidateParticipantToken(tokenString string) (*model.ParticipantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ParticipantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ParticipantClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authorize validates a token and checks that it belongs to sessionID
func (s *AuthService) Authorize(tokenString, sessionID string) error {
	claims, err := s.ValidateParticipantToken(tokenString)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return ErrTokenScope
	}
	return nil
}
