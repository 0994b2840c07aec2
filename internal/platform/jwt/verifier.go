package jwtmw

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC secret shared
// with the external auth service that issues the tokens.
const EnvKeyJWTSecret = "JWT_SECRET"

// Error reasons surfaced to clients on a rejected handshake or request.
var (
	ErrTokenMissing  = errors.New("token missing")
	ErrInvalidToken  = errors.New("invalid signature")
	ErrTokenExpired  = errors.New("expired")
	ErrUserIDMissing = errors.New("user id missing from token")
)

// Historical issuers used different claim names; each list is resolved in order
// and the first non-empty string claim wins.
var (
	userIDClaims = []string{"userId", "user_id", "sub"}
	mobileClaims = []string{"mobile_number", "mobileNumber", "phone_number", "phone"}
)

// Identity is the result of verifying an externally issued token.
type Identity struct {
	// UserID is the stable identifier claim. Always non-empty.
	UserID string

	// MobileNumber is the contact claim, empty when the token carries none.
	MobileNumber string
}

// Verifier validates an externally issued signed token and extracts the
// caller's identity. Pure signature check, no I/O.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// verifier implements the Verifier interface over HS256 tokens.
type verifier struct {
	secret []byte
}

// NewVerifier creates a new token verifier with the provided shared secret.
func NewVerifier(secret string) Verifier {
	return &verifier{secret: []byte(secret)}
}

// Verify parses and validates the token, then resolves the user id and mobile
// number claims from the accepted claim-name lists.
func (v *verifier) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID := firstStringClaim(claims, userIDClaims)
	if userID == "" {
		return nil, ErrUserIDMissing
	}

	return &Identity{
		UserID:       userID,
		MobileNumber: firstStringClaim(claims, mobileClaims),
	}, nil
}

// firstStringClaim returns the first non-empty string claim among names.
func firstStringClaim(claims jwt.MapClaims, names []string) string {
	for _, name := range names {
		if s, ok := claims[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
