package cryptox_test

import (
	"testing"

	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, 43) // 32 bytes base64url without padding

	other, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestGenerateTokenRejectsInvalidSize(t *testing.T) {
	_, err := cryptox.GenerateToken(0)
	require.Error(t, err)

	_, err = cryptox.GenerateToken(-1)
	require.Error(t, err)
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	fp1 := cryptox.FingerprintToken("session-token")
	fp2 := cryptox.FingerprintToken("session-token")
	require.Equal(t, fp1, fp2)
	require.Len(t, fp1, 43)

	require.NotEqual(t, fp1, cryptox.FingerprintToken("other-token"))
}
