// Package token mints and validates the signed, time-bounded tokens
// used across the auth flows. Every token carries a kind claim; a token
// of one kind is never accepted where another kind is expected.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nirgunrohan/LMS/internal/models"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindReset   Kind = "reset"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrWrongKind    = errors.New("wrong token kind")
)

type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role,omitempty"`
	Kind   Kind        `json:"kind"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// IssueAccess embeds the role so authorization checks need no extra lookup.
func (i *Issuer) IssueAccess(userID, email string, role models.Role, ttl time.Duration) (string, error) {
	return i.sign(Claims{UserID: userID, Email: email, Role: role, Kind: KindAccess}, ttl)
}

func (i *Issuer) IssueRefresh(userID, email string, ttl time.Duration) (string, error) {
	return i.sign(Claims{UserID: userID, Email: email, Kind: KindRefresh}, ttl)
}

func (i *Issuer) IssueReset(userID, email string, ttl time.Duration) (string, error) {
	return i.sign(Claims{UserID: userID, Email: email, Kind: KindReset}, ttl)
}

func (i *Issuer) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates the token and rejects any kind other
// than expected, even when the signature and expiry are fine.
func (i *Issuer) Verify(tokenStr string, expected Kind) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != expected {
		return nil, ErrWrongKind
	}
	return claims, nil
}
