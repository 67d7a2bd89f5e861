package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOnlyVault(t *testing.T) {
	v, err := Open("")
	require.NoError(t, err)
	defer v.Close()

	assert.Empty(t, v.Get("missing"))

	require.NoError(t, v.Set("k", "v"))
	assert.Equal(t, "v", v.Get("k"))

	v.Delete("k")
	assert.Empty(t, v.Get("k"))
}

func TestTokenPairLifecycle(t *testing.T) {
	v, err := Open("")
	require.NoError(t, err)
	defer v.Close()

	assert.Empty(t, v.AccessToken())

	require.NoError(t, v.SetTokens("acc", "ref"))
	assert.Equal(t, "acc", v.AccessToken())
	assert.Equal(t, "ref", v.Get(KeyRefreshToken))

	v.ClearTokens()
	assert.Empty(t, v.AccessToken())
	assert.Empty(t, v.Get(KeyRefreshToken))
}

func TestVaultPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	v, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, v.SetTokens("acc", "ref"))
	require.NoError(t, v.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "acc", reopened.AccessToken())
	assert.Equal(t, "ref", reopened.Get(KeyRefreshToken))
}

func TestClearTokensPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	v, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, v.SetTokens("acc", "ref"))
	v.ClearTokens()
	require.NoError(t, v.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Empty(t, reopened.AccessToken(), "logout must survive a restart")
}
