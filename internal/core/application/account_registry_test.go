package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"

	"github.com/halcyonwallet/custodyd/internal/core/application"
	"github.com/halcyonwallet/custodyd/internal/core/domain"
	inmemorysecurestore "github.com/halcyonwallet/custodyd/pkg/securestore/inmemory"
)

func TestAccountRegistryRoundTrip(t *testing.T) {
	store := inmemorysecurestore.NewSecureStorage()
	registry := application.NewAccountRegistry(store)

	alice := "alice@example.com"
	bob := "bob@example.com"
	carol := "carol@example.com"

	require.NoError(t, registry.AddAccount(alice))
	require.NoError(t, registry.AddAccount(bob))
	require.NoError(t, registry.AddAccount(carol))
	// duplicate add is a no-op.
	require.NoError(t, registry.AddAccount(bob))
	require.NoError(t, registry.RemoveAccount(bob))
	// removing an unknown account is a no-op.
	require.NoError(t, registry.RemoveAccount("nobody@example.com"))

	// a fresh registry over the same store simulates a restart.
	reloaded := application.NewAccountRegistry(store)
	assert.Equal(t, []string{alice, carol}, reloaded.ListAccounts())

	mainAccount, ok := reloaded.MainAccount()
	require.True(t, ok)
	assert.Equal(t, alice, mainAccount)
}

func TestAccountRegistryEmpty(t *testing.T) {
	registry := application.NewAccountRegistry(inmemorysecurestore.NewSecureStorage())

	assert.Empty(t, registry.ListAccounts())

	_, ok := registry.MainAccount()
	assert.False(t, ok)

	err := registry.AddAccount("")
	require.EqualError(t, err, domain.ErrEmptyAccountID.Error())
}

func TestAccountRegistryUnknownVersionBlob(t *testing.T) {
	store := inmemorysecurestore.NewSecureStorage()

	// a blob written by some future release must be treated as no data.
	err := store.SetData(
		"accounts", []byte(`{"version":99,"payload":"anything"}`),
	)
	require.NoError(t, err)

	registry := application.NewAccountRegistry(store)
	assert.Empty(t, registry.ListAccounts())

	// the registry stays usable: the next write replaces the blob.
	account := randstr.Hex(8) + "@example.com"
	require.NoError(t, registry.AddAccount(account))
	assert.Equal(t, []string{account}, registry.ListAccounts())
}
