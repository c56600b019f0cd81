package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 tokens. The "typ" claim keeps refresh
// tokens from being accepted as access tokens and the other way round.
type TokenIssuer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (t *TokenIssuer) IssueAccess(userID uint) (string, error) {
	token, _, err := t.issue(userID, AccessToken, t.AccessTTL)
	return token, err
}

// IssueRefresh also returns the expiry so it can be stored with the token.
func (t *TokenIssuer) IssueRefresh(userID uint) (string, time.Time, error) {
	return t.issue(userID, RefreshToken, t.RefreshTTL)
}

func (t *TokenIssuer) issue(userID uint, typ string, ttl time.Duration) (string, time.Time, error) {
	now := t.clock()
	expires := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"typ":     typ,
		"iat":     now.Unix(),
		"exp":     expires.Unix(),
		// jti keeps two refresh tokens issued in the same second distinct.
		"jti": fmt.Sprintf("%d-%d", userID, now.UnixNano()),
	})

	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, expires, nil
}

// Parse verifies raw and checks that it is a token of kind typ.
func (t *TokenIssuer) Parse(raw, typ string) (*UserClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if kind, _ := claims["typ"].(string); kind != typ {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidToken
	}

	return &UserClaims{UserID: uint(userID)}, nil
}

func (t *TokenIssuer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}
