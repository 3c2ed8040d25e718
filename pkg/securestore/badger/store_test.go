package badgersecurestore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyonwallet/custodyd/pkg/securestore"
	badgersecurestore "github.com/halcyonwallet/custodyd/pkg/securestore/badger"
)

var (
	password = []byte("password")
)

func TestNewSecureStore(t *testing.T) {
	store := newTestStore(t)
	require.NotNil(t, store)
}

func TestCreateUnlock(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetString("anykey")
	require.EqualError(t, err, badgersecurestore.ErrStoreLocked.Error())

	err = store.CreateUnlock(&password)
	require.NoError(t, err)

	// ensures that the securestore does nothing if already unlocked.
	err = store.CreateUnlock(&password)
	require.NoError(t, err)

	_, err = store.GetString("anykey")
	require.NoError(t, err)
}

func TestFailingCreateUnlock(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateUnlock(nil)
	require.EqualError(t, err, badgersecurestore.ErrPasswordRequired.Error())

	err = store.CreateUnlock(&password)
	require.NoError(t, err)

	store.Lock()
	require.True(t, store.IsLocked())

	wrongPassword := []byte("wr0ngPassword")
	err = store.CreateUnlock(&wrongPassword)
	require.EqualError(t, err, badgersecurestore.ErrInvalidPassword.Error())
}

func TestSetGetRemove(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateUnlock(&password)
	require.NoError(t, err)

	err = store.SetString("alice.keyDataSeed", "secretseed")
	require.NoError(t, err)

	value, err := store.GetString("alice.keyDataSeed")
	require.NoError(t, err)
	require.Equal(t, "secretseed", value)

	found, err := store.Has("alice.keyDataSeed")
	require.NoError(t, err)
	require.True(t, found)

	// missing keys yield zero values, not errors.
	value, err = store.GetString("bob.keyDataSeed")
	require.NoError(t, err)
	require.Empty(t, value)

	data, err := store.GetData("bob.keyDataSeed")
	require.NoError(t, err)
	require.Nil(t, data)

	err = store.Remove("alice.keyDataSeed")
	require.NoError(t, err)

	found, err = store.Has("alice.keyDataSeed")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFailingSetGet(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateUnlock(&password)
	require.NoError(t, err)

	_, err = store.GetString("")
	require.EqualError(t, err, badgersecurestore.ErrMissingDataKey.Error())

	err = store.SetString("somekey", "")
	require.EqualError(t, err, badgersecurestore.ErrMissingData.Error())

	_, err = store.GetData("enckey")
	require.EqualError(t, err, badgersecurestore.ErrForbiddenDataKey.Error())

	err = store.SetData("enckey", []byte("value"))
	require.EqualError(t, err, badgersecurestore.ErrForbiddenDataKey.Error())
}

func TestWipeAll(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateUnlock(&password)
	require.NoError(t, err)

	err = store.SetString("alice.keyDataSeed", "secretseed")
	require.NoError(t, err)
	err = store.SetString("alice.walletData", "walletdata")
	require.NoError(t, err)

	err = store.WipeAll()
	require.NoError(t, err)

	for _, key := range []string{"alice.keyDataSeed", "alice.walletData"} {
		found, err := store.Has(key)
		require.NoError(t, err)
		require.False(t, found)
	}

	// the store must remain unlocked and usable after a wipe.
	err = store.SetString("alice.keyDataSeed", "anotherseed")
	require.NoError(t, err)
}

func newTestStore(t *testing.T) securestore.SecureStorage {
	t.Helper()

	store, err := badgersecurestore.NewSecureStorage(t.TempDir(), "test.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}
