package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenClass distinguishes the two credential kinds a token can carry.
type TokenClass string

const (
	// ClassAccess marks short-lived tokens proving identity per request.
	ClassAccess TokenClass = "access"
	// ClassRefresh marks long-lived tokens redeemable for a new pair.
	ClassRefresh TokenClass = "refresh"
)

var (
	// ErrMissingSecret is returned when the signing secret for the
	// requested class is not configured.
	ErrMissingSecret = errors.New("token signing secret is not configured")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken is returned for tampered or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenClass is returned when a token of one class is
	// presented where the other is required.
	ErrWrongTokenClass = errors.New("wrong token class")
)

// Claims carry the subject id and token class.
type Claims struct {
	Class string `json:"cls"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the access/refresh token pair. Tokens
// are opaque strings to every other package.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenService creates a token service with per-class secrets and expiries.
func NewTokenService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *TokenService) secretAndExpiry(class TokenClass) ([]byte, time.Duration, error) {
	switch class {
	case ClassAccess:
		if len(s.accessSecret) == 0 {
			return nil, 0, ErrMissingSecret
		}
		return s.accessSecret, s.accessExpiry, nil
	case ClassRefresh:
		if len(s.refreshSecret) == 0 {
			return nil, 0, ErrMissingSecret
		}
		return s.refreshSecret, s.refreshExpiry, nil
	default:
		return nil, 0, ErrWrongTokenClass
	}
}

// Issue signs a new token of the given class for the subject.
func (s *TokenService) Issue(subjectID string, class TokenClass) (string, error) {
	secret, expiry, err := s.secretAndExpiry(class)
	if err != nil {
		return "", err
	}

	// The unique ID makes every issued token distinct even within the
	// same second, so rotation always supersedes the previous value.
	now := time.Now()
	claims := &Claims{
		Class: string(class),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// IssuePair signs a fresh access+refresh pair for the subject.
func (s *TokenService) IssuePair(subjectID string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.Issue(subjectID, ClassAccess)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.Issue(subjectID, ClassRefresh)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Verify checks signature, expiry and class, and returns the subject id.
func (s *TokenService) Verify(tokenString string, class TokenClass) (string, error) {
	secret, _, err := s.secretAndExpiry(class)
	if err != nil {
		return "", err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Class != string(class) {
		return "", ErrWrongTokenClass
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
