package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Demo123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Demo123!", hash)

	assert.NoError(t, h.Compare(hash, "Demo123!"))
	assert.ErrorIs(t, h.Compare(hash, "nope"), ErrPasswordMismatch)
	assert.Error(t, h.Compare("not-a-hash", "Demo123!"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)

	tok, exp, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
	assert.Equal(t, time.Hour, m.TTL())

	sub, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("s3cret", time.Minute)
	past := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return past }
	tok, _, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
}

func TestTokenManager_RejectsWrongSecretAndGarbage(t *testing.T) {
	tok, _, err := NewTokenManager("a", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("b", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("a", time.Hour).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlgAndMissingSubject(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = m.Parse(noSub)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
