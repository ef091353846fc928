package model

import "github.com/golang-jwt/jwt/v5"

// ParticipantClaims are JWT claims for a session-scoped participant token
type ParticipantClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
