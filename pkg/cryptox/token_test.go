package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, 43) // 32 bytes base64url, no padding

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, token, other)

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("opaque-secret")
	require.Equal(t, fp, FingerprintToken("opaque-secret"))
	require.NotEqual(t, fp, FingerprintToken("other-secret"))
	require.Len(t, fp, 43)
}
