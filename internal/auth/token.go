package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CampusQA-2025/qa-service/internal/models"
)

const defaultTokenTTL = 24 * time.Hour

var (
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for structurally valid tokens past exp.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the application session claims embedded in every bearer
// token. Role is a snapshot taken at issue time; the authorization gate
// re-reads the directory record on each request.
type Claims struct {
	jwt.RegisteredClaims
	Role models.UserRole `json:"role"`
}

// TokenService issues and verifies signed application session tokens.
// Tokens are stateless; only the signing secret is held server-side.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
}

// NewTokenService creates a token service with the fixed 24h expiry.
func NewTokenService(signingKey []byte, issuer string) *TokenService {
	return &TokenService{
		signingKey: signingKey,
		ttl:        defaultTokenTTL,
		issuer:     issuer,
	}
}

// Issue produces a signed token embedding the user's id and role.
func (s *TokenService) Issue(user *models.User) (string, error) {
	if len(s.signingKey) == 0 {
		return "", fmt.Errorf("signing key not configured")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token. Expired and malformed
// tokens are distinguished so the gate can log them apart, though both
// reject the request.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
