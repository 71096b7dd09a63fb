package cryptox_test

import (
	"strings"
	"testing"

	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("S3cret!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("S3cret!", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong", hash), cryptox.ErrPasswordMismatch)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.NoError(t, cryptox.VerifyPassword("same-password", h1))
	require.NoError(t, cryptox.VerifyPassword("same-password", h2))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainly-not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!!$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := cryptox.VerifyPassword("whatever", tc.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, cryptox.ErrPasswordMismatch)
		})
	}
}
