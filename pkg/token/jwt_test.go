package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", "taskvault", time.Hour)

	signed, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "taskvault", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", "taskvault", time.Hour)

	issuedAt := time.Now()
	issuer.now = func() time.Time { return issuedAt }

	signed, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	// Just before expiry the token is still valid; just after it is not.
	issuer.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	_, err = issuer.Verify(signed)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	claims, err := issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	issuer := NewIssuer("test-secret", "taskvault", time.Hour)

	// A well-signed token missing exp must not verify: tokens without a
	// bounded lifetime would never expire.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		Email:  "a@x.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer := NewIssuer("test-secret", "taskvault", time.Hour)

	signed, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	claims, err := issuer.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-a", "taskvault", time.Hour).Issue("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := NewIssuer("secret-b", "taskvault", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", "taskvault", time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		claims, err := issuer.Verify(input)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	}
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewIssuer("s", "i", 0).TTL())
	assert.Equal(t, 30*time.Minute, NewIssuer("s", "i", 30*time.Minute).TTL())
}
