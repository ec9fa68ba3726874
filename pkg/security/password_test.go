package security_test

import (
	"strings"
	"testing"

	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/security"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", testPasswordConfig())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))
	require.NotContains(t, hash, "very-secure-password")

	ok, err := security.VerifyPassword("very-secure-password", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	first, err := security.HashPassword("same", testPasswordConfig())
	require.NoError(t, err)
	second, err := security.HashPassword("same", testPasswordConfig())
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", testPasswordConfig())
	require.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{"not-a-hash", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		_, err := security.VerifyPassword("irrelevant", encoded)
		require.ErrorIs(t, err, security.ErrInvalidHash, encoded)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(16)
	require.NoError(t, err)
	require.Len(t, pw, 16)
	require.False(t, strings.ContainsAny(pw, "0O1lI"))

	_, err = security.GenerateTempPassword(0)
	require.Error(t, err)
}
