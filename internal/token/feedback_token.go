// Package token issues and validates signed feedback tokens. A token binds a
// ticket id and attempt number so feedback for a stale attempt or a foreign
// ticket is rejected. This is channel integrity, not submitter identity.
package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Manager handles issuing and validating feedback tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a new manager.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the feedback token payload.
type Claims struct {
	TicketID string `json:"ticket_id"`
	Attempt  int    `json:"attempt"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the given ticket attempt.
func (m *Manager) Issue(ticketID string, attempt int) (string, error) {
	now := time.Now()
	claims := &Claims{
		TicketID: ticketID,
		Attempt:  attempt,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ticketID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and returns its claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
