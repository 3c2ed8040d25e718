package application

import (
	"bytes"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/pkg/keypair"
	"github.com/halcyonwallet/custodyd/pkg/securestore"
)

// keySeedSuffix is the per-account namespace suffix the encoded signing seed
// is stored under.
const keySeedSuffix = ".keyDataSeed"

// KeyVault stores and retrieves the signing key material of an account and
// validates freshly derived keys against stored ones. Retrieval failures and
// intentionally absent keys both yield nil/false, a caller that needs the
// distinction probes with HasKey first.
//
// The vault also acts as the signing-key provider for the signing pipeline:
// PrivateKey and PublicKeyString resolve the key of the registry's main
// account without exposing storage details.
type KeyVault interface {
	HasKey(account string) bool
	GetKey(account string) *keypair.KeyPair
	SaveKey(key *keypair.KeyPair, account string) error
	RemoveKey(account string) error
	ValidateDerivedKey(candidate *keypair.KeyPair, account string) bool
	PrivateKey() *keypair.KeyPair
	PublicKeyString() string
}

type storedKeyVault struct {
	store    securestore.SecureStorage
	registry *AccountRegistry
}

// NewStoredKeyVault returns a KeyVault that persists encoded seeds in the
// secure store, namespaced per account.
func NewStoredKeyVault(
	store securestore.SecureStorage, registry *AccountRegistry,
) KeyVault {
	return &storedKeyVault{store: store, registry: registry}
}

func (v *storedKeyVault) HasKey(account string) bool {
	found, err := v.store.Has(storageKey(account))
	if err != nil {
		log.WithError(err).Warn("key vault: failed to probe stored key")
		return false
	}
	return found
}

func (v *storedKeyVault) GetKey(account string) *keypair.KeyPair {
	if len(account) <= 0 {
		return nil
	}

	encodedSeed, err := v.store.GetString(storageKey(account))
	if err != nil {
		log.WithError(err).Warn("key vault: failed to read stored key")
		return nil
	}
	if len(encodedSeed) <= 0 {
		return nil
	}

	key, err := keypair.Decode(encodedSeed)
	if err != nil {
		log.WithError(err).Warn("key vault: failed to decode stored key")
		return nil
	}
	return key
}

func (v *storedKeyVault) SaveKey(key *keypair.KeyPair, account string) error {
	if key == nil {
		return ErrNullKey
	}
	if len(account) <= 0 {
		return domain.ErrEmptyAccountID
	}

	// the account must be known to the registry before it owns a key.
	if err := v.registry.AddAccount(account); err != nil {
		return err
	}

	return v.store.SetString(storageKey(account), key.Encode())
}

func (v *storedKeyVault) RemoveKey(account string) error {
	if len(account) <= 0 {
		return domain.ErrEmptyAccountID
	}
	return v.store.Remove(storageKey(account))
}

func (v *storedKeyVault) ValidateDerivedKey(
	candidate *keypair.KeyPair, account string,
) bool {
	if candidate == nil {
		return false
	}

	stored := v.GetKey(account)
	if stored == nil {
		return false
	}
	return bytes.Equal(stored.Seed(), candidate.Seed())
}

func (v *storedKeyVault) PrivateKey() *keypair.KeyPair {
	mainAccount, ok := v.registry.MainAccount()
	if !ok {
		return nil
	}
	return v.GetKey(mainAccount)
}

func (v *storedKeyVault) PublicKeyString() string {
	key := v.PrivateKey()
	if key == nil {
		return ""
	}
	return key.PublicKeyString()
}

func storageKey(account string) string {
	return account + keySeedSuffix
}

// sessionKeyVault caches exactly one account's key in memory for the
// lifetime of the process. It never touches durable storage: the key is
// re-derived from the password on next login. Lookups for any other account
// id are rejected.
type sessionKeyVault struct {
	mtx     sync.RWMutex
	account string
	key     *keypair.KeyPair
}

// NewSessionKeyVault returns the in-memory, single-key variant of KeyVault.
func NewSessionKeyVault() KeyVault {
	return &sessionKeyVault{}
}

func (v *sessionKeyVault) HasKey(account string) bool {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	return v.key != nil && v.account == account
}

func (v *sessionKeyVault) GetKey(account string) *keypair.KeyPair {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.key == nil || v.account != account {
		return nil
	}
	return v.key
}

func (v *sessionKeyVault) SaveKey(key *keypair.KeyPair, account string) error {
	if key == nil {
		return ErrNullKey
	}
	if len(account) <= 0 {
		return domain.ErrEmptyAccountID
	}

	v.mtx.Lock()
	defer v.mtx.Unlock()

	v.account = account
	v.key = key
	return nil
}

func (v *sessionKeyVault) RemoveKey(account string) error {
	if len(account) <= 0 {
		return domain.ErrEmptyAccountID
	}

	v.mtx.Lock()
	defer v.mtx.Unlock()

	if v.account == account {
		v.account = ""
		v.key = nil
	}
	return nil
}

func (v *sessionKeyVault) ValidateDerivedKey(
	candidate *keypair.KeyPair, account string,
) bool {
	if candidate == nil {
		return false
	}

	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.key == nil || v.account != account {
		return false
	}
	return bytes.Equal(v.key.Seed(), candidate.Seed())
}

func (v *sessionKeyVault) PrivateKey() *keypair.KeyPair {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	return v.key
}

func (v *sessionKeyVault) PublicKeyString() string {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.key == nil {
		return ""
	}
	return v.key.PublicKeyString()
}
