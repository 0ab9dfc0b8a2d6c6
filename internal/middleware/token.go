package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uecsr/portal/internal/models"
)

// DefaultTokenTTL is how long issued access tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the access token claims. The subject is the user id.
type Claims struct {
	Rol   models.Rol `json:"rol"`
	Email string     `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id carried in the subject.
func (c *Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// CanModerate reports whether the token belongs to an admin or staff user.
func (c *Claims) CanModerate() bool {
	return c.Rol == models.RolAdmin || c.Rol == models.RolStaff
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens signing with secret. A zero ttl means
// DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u.
func (t *Tokens) Issue(u models.Usuario) (string, error) {
	now := t.now()
	claims := Claims{
		Rol:   u.Rol,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ErrInvalidToken is returned for tokens that are malformed, expired or
// signed with another key.
var ErrInvalidToken = errors.New("invalid token")

// Parse verifies raw and returns its claims.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
