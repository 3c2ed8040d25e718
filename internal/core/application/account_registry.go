package application

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/pkg/securestore"
)

// accountsStoreKey is the secret store key holding the single versioned
// account list blob.
const accountsStoreKey = "accounts"

// AccountRegistry maintains the ordered list of known account identifiers
// inside a single versioned blob in the secure store. Every mutation rewrites
// the whole blob, the read-modify-write cycle is serialized by an internal
// mutex.
type AccountRegistry struct {
	store securestore.SecureStorage

	mtx sync.RWMutex
}

// NewAccountRegistry returns an AccountRegistry backed by the given store.
func NewAccountRegistry(store securestore.SecureStorage) *AccountRegistry {
	return &AccountRegistry{store: store}
}

// ListAccounts returns the known account identifiers in insertion order.
// A missing or undecodable blob yields an empty list, never an error.
func (r *AccountRegistry) ListAccounts() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.listAccounts()
}

// AddAccount appends the account to the stored list and rewrites the blob.
// Adding an already known account is a no-op.
func (r *AccountRegistry) AddAccount(accountID string) error {
	if len(accountID) <= 0 {
		return domain.ErrEmptyAccountID
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	accounts := r.listAccounts()
	for _, account := range accounts {
		if account == accountID {
			return nil
		}
	}

	return r.writeAccounts(append(accounts, accountID))
}

// RemoveAccount drops the account from the stored list and rewrites the blob.
// Removing an unknown account is a no-op.
func (r *AccountRegistry) RemoveAccount(accountID string) error {
	if len(accountID) <= 0 {
		return domain.ErrEmptyAccountID
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	accounts := r.listAccounts()
	filtered := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if account != accountID {
			filtered = append(filtered, account)
		}
	}
	if len(filtered) == len(accounts) {
		return nil
	}

	return r.writeAccounts(filtered)
}

// MainAccount returns the first account of the stored list, the identity all
// key and binding operations are namespaced under.
func (r *AccountRegistry) MainAccount() (string, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	accounts := r.listAccounts()
	if len(accounts) <= 0 {
		return "", false
	}
	return accounts[0], true
}

func (r *AccountRegistry) listAccounts() []string {
	blob, err := r.store.GetData(accountsStoreKey)
	if err != nil {
		log.WithError(err).Warn("account registry: failed to read account list")
		return nil
	}
	if len(blob) <= 0 {
		return nil
	}

	accounts, err := domain.DecodeAccountList(blob)
	if err != nil {
		log.WithError(err).Warn("account registry: failed to decode account list")
		return nil
	}
	return accounts
}

func (r *AccountRegistry) writeAccounts(accounts []string) error {
	blob, err := domain.EncodeAccountList(accounts)
	if err != nil {
		return err
	}
	return r.store.SetData(accountsStoreKey, blob)
}
