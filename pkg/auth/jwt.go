package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const audience = "luxury-stays-web"

// Kinds of navigation state handed from one booking view to the next.
const (
	KindCheckout     = "checkout"
	KindConfirmation = "confirmation"
)

var (
	ErrWrongKind    = errors.New("navigation state is for a different view")
	ErrMissingState = errors.New("navigation state missing")
)

// Claims carries one view's state to the next. The payload is opaque here;
// callers decode it into their own state type. Subject names the listing or
// reservation the state belongs to.
type Claims struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	jwt.RegisteredClaims
}

// NewNavigationToken signs payload for the view named by kind. subject is
// bound into the token so state cannot be replayed against another property
// or reservation.
func NewNavigationToken(kind, subject string, payload any, secret string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode navigation state: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Kind:    kind,
		Payload: body,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{audience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Parse(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingState
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ParseNavigation verifies tokenString and decodes its payload into out. It
// fails when the token was issued for another view kind or subject.
func ParseNavigation(tokenString, kind, subject, secret string, out any) error {
	claims, err := Parse(tokenString, secret)
	if err != nil {
		return err
	}
	if claims.Kind != kind {
		return ErrWrongKind
	}
	if subject != "" && claims.Subject != subject {
		return ErrWrongKind
	}
	if err := json.Unmarshal(claims.Payload, out); err != nil {
		return fmt.Errorf("decode navigation state: %w", err)
	}
	return nil
}
