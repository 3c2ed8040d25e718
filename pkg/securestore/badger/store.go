package badgersecurestore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"golang.org/x/crypto/scrypt"

	"github.com/halcyonwallet/custodyd/pkg/securestore"
)

const saltLen = 32

var (
	// encryptionCheckID is the key of the entry that stores the scrypt salt
	// along with a known token encrypted with the derived key. It is used to
	// detect a wrong password at unlock time and is never exposed to callers.
	encryptionCheckID = []byte("enckey")

	checkToken = []byte("custody-securestore-check")
)

type badgerSecureStorage struct {
	db *badger.DB

	encKeyMtx sync.RWMutex
	encKey    []byte
	salt      []byte
}

// NewSecureStorage creates a badger instance of the SecureStorage interface.
// Values are encrypted with AES-256-GCM under a key stretched from the
// password given to CreateUnlock.
func NewSecureStorage(datadir, filename string) (securestore.SecureStorage, error) {
	if _, err := os.Stat(datadir); os.IsNotExist(err) {
		if err := os.MkdirAll(datadir, os.ModeDir|0755); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(filepath.Join(datadir, filename))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerSecureStorage{db: db}, nil
}

// IsLocked returns whether the store is locked by checking if the encryption
// key is stored in-memory.
func (s *badgerSecureStorage) IsLocked() bool {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()
	return s.encKey == nil
}

// Lock eventually locks the store by flushing the in-memory encryption key.
func (s *badgerSecureStorage) Lock() {
	s.encKeyMtx.Lock()
	defer s.encKeyMtx.Unlock()

	if s.encKey != nil {
		for i := range s.encKey {
			s.encKey[i] = 0
		}
		s.encKey = nil
		s.salt = nil
	}
}

// CreateUnlock sets an encryption key if one is not already set, otherwise it
// checks if the password is correct for the stored encryption key.
func (s *badgerSecureStorage) CreateUnlock(password *[]byte) error {
	// If the store is already unlocked there's nothing to do here.
	if !s.IsLocked() {
		return nil
	}

	if password == nil {
		return ErrPasswordRequired
	}

	s.encKeyMtx.Lock()
	defer s.encKeyMtx.Unlock()

	var rawCheck []byte
	if err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(encryptionCheckID)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		rawCheck, err = item.ValueCopy(nil)
		return err
	}); err != nil {
		return err
	}

	if len(rawCheck) > 0 {
		// A check entry is already stored, so try to unlock with the password.
		salt := rawCheck[:saltLen]
		key, err := deriveKey(*password, salt)
		if err != nil {
			return err
		}
		token, err := decrypt(key, rawCheck[saltLen:])
		if err != nil || !bytes.Equal(token, checkToken) {
			return ErrInvalidPassword
		}

		s.encKey = key
		s.salt = salt
		return nil
	}

	// The check entry is not yet stored, so create a new one.
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	key, err := deriveKey(*password, salt)
	if err != nil {
		return err
	}
	if err := s.writeCheckEntry(key, salt); err != nil {
		return err
	}

	s.encKey = key
	s.salt = salt
	return nil
}

// GetString retrieves the string value stored under the given key.
func (s *badgerSecureStorage) GetString(key string) (string, error) {
	value, err := s.GetData(key)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetString stores the string value encrypted under the given key.
func (s *badgerSecureStorage) SetString(key, value string) error {
	return s.SetData(key, []byte(value))
}

// GetData retrieves and decrypts the value stored under the given key.
// A missing key yields a nil value, not an error.
func (s *badgerSecureStorage) GetData(key string) ([]byte, error) {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()

	if s.encKey == nil {
		return nil, ErrStoreLocked
	}
	if len(key) <= 0 {
		return nil, ErrMissingDataKey
	}
	if bytes.Equal([]byte(key), encryptionCheckID) {
		return nil, ErrForbiddenDataKey
	}

	var encryptedValue []byte
	if err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		encryptedValue, err = item.ValueCopy(nil)
		return err
	}); err != nil {
		return nil, err
	}

	if len(encryptedValue) <= 0 {
		return nil, nil
	}

	return decrypt(s.encKey, encryptedValue)
}

// SetData encrypts the provided value and stores it under the given key.
func (s *badgerSecureStorage) SetData(key string, value []byte) error {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()

	if s.encKey == nil {
		return ErrStoreLocked
	}
	if len(key) <= 0 {
		return ErrMissingDataKey
	}
	if bytes.Equal([]byte(key), encryptionCheckID) {
		return ErrForbiddenDataKey
	}
	if len(value) <= 0 {
		return ErrMissingData
	}

	encryptedValue, err := encrypt(s.encKey, value)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), encryptedValue)
	})
}

// Remove deletes the entry identified by the given key. Removing a missing
// key is not an error.
func (s *badgerSecureStorage) Remove(key string) error {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()

	if s.encKey == nil {
		return ErrStoreLocked
	}
	if len(key) <= 0 {
		return ErrMissingDataKey
	}
	if bytes.Equal([]byte(key), encryptionCheckID) {
		return ErrForbiddenDataKey
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete([]byte(key))
	})
}

// Has returns whether an entry exists for the given key.
func (s *badgerSecureStorage) Has(key string) (bool, error) {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()

	if s.encKey == nil {
		return false, ErrStoreLocked
	}
	if len(key) <= 0 {
		return false, ErrMissingDataKey
	}
	if bytes.Equal([]byte(key), encryptionCheckID) {
		return false, ErrForbiddenDataKey
	}

	found := false
	if err := s.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return nil
	}); err != nil {
		return false, err
	}

	return found, nil
}

// WipeAll drops every entry from the store, then restores the encryption
// check entry so that the store stays unlocked with the same password.
func (s *badgerSecureStorage) WipeAll() error {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()

	if s.encKey == nil {
		return ErrStoreLocked
	}

	if err := s.db.DropAll(); err != nil {
		return err
	}

	return s.writeCheckEntry(s.encKey, s.salt)
}

// Close closes the underlying database and zeroes the encryption key stored
// in memory.
func (s *badgerSecureStorage) Close() error {
	s.Lock()
	return s.db.Close()
}

func (s *badgerSecureStorage) writeCheckEntry(key, salt []byte) error {
	encryptedToken, err := encrypt(key, checkToken)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(encryptionCheckID, append(salt, encryptedToken...))
	})
}

func deriveKey(password, salt []byte) ([]byte, error) {
	return scrypt.Key(password, salt, 32768, 8, 1, 32)
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(key, ciphertext []byte) ([]byte, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) <= gcm.NonceSize() {
		return nil, ErrInvalidPassword
	}
	nonce, text := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, text, nil)
}
