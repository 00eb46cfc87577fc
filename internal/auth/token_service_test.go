package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func newTestService() *TokenService {
	return NewTokenService(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name    string
		class   TokenClass
		subject string
	}{
		{name: "access roundtrip", class: ClassAccess, subject: "user-1"},
		{name: "refresh roundtrip", class: ClassRefresh, subject: "user-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Issue(tt.subject, tt.class)
			assert.NoError(t, err)
			assert.NotEmpty(t, token)

			subject, err := svc.Verify(token, tt.class)
			assert.NoError(t, err)
			assert.Equal(t, tt.subject, subject)
		})
	}
}

func TestTokenService_MissingSecret(t *testing.T) {
	svc := NewTokenService("", testRefreshSecret, time.Minute, time.Minute)

	_, err := svc.Issue("user-1", ClassAccess)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = svc.Verify("whatever", ClassAccess)
	assert.ErrorIs(t, err, ErrMissingSecret)

	// Refresh secret is present, so the refresh class still works.
	token, err := svc.Issue("user-1", ClassRefresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testAccessSecret, testRefreshSecret, -time.Minute, time.Minute)

	token, err := svc.Issue("user-1", ClassAccess)
	assert.NoError(t, err)

	_, err = svc.Verify(token, ClassAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Tampered(t *testing.T) {
	svc := newTestService()

	token, err := svc.Issue("user-1", ClassAccess)
	assert.NoError(t, err)

	_, err = svc.Verify(token+"x", ClassAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-jwt", ClassAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongClass(t *testing.T) {
	// Separate secrets: an access token presented as refresh fails the
	// signature check before the class claim is even reached.
	svc := newTestService()
	accessToken, err := svc.Issue("user-1", ClassAccess)
	assert.NoError(t, err)

	_, err = svc.Verify(accessToken, ClassRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Shared secret: the class claim itself must reject the mismatch.
	shared := NewTokenService("same-secret", "same-secret", time.Minute, time.Minute)
	accessToken, err = shared.Issue("user-1", ClassAccess)
	assert.NoError(t, err)

	_, err = shared.Verify(accessToken, ClassRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenClass)
}
