package inmemorysecurestore

import (
	"errors"
	"sync"

	"github.com/halcyonwallet/custodyd/pkg/securestore"
)

var (
	// ErrMissingDataKey is returned if an empty key is used for any operation.
	ErrMissingDataKey = errors.New("data key must not be empty")
	// ErrMissingData is returned if attempting to store an empty value.
	ErrMissingData = errors.New("data must not be empty")
)

// inMemorySecureStorage is a volatile, plaintext implementation of the
// SecureStorage interface. It is meant for tests and dry runs, not for
// storing real secrets.
type inMemorySecureStorage struct {
	mtx    sync.RWMutex
	values map[string][]byte
}

// NewSecureStorage creates an in-memory instance of the SecureStorage
// interface. The store is always unlocked.
func NewSecureStorage() securestore.SecureStorage {
	return &inMemorySecureStorage{values: map[string][]byte{}}
}

func (s *inMemorySecureStorage) Lock() {}

func (s *inMemorySecureStorage) IsLocked() bool { return false }

func (s *inMemorySecureStorage) CreateUnlock(_ *[]byte) error { return nil }

func (s *inMemorySecureStorage) Close() error { return nil }

func (s *inMemorySecureStorage) GetString(key string) (string, error) {
	value, err := s.GetData(key)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (s *inMemorySecureStorage) SetString(key, value string) error {
	return s.SetData(key, []byte(value))
}

func (s *inMemorySecureStorage) GetData(key string) ([]byte, error) {
	if len(key) <= 0 {
		return nil, ErrMissingDataKey
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, nil
}

func (s *inMemorySecureStorage) SetData(key string, value []byte) error {
	if len(key) <= 0 {
		return ErrMissingDataKey
	}
	if len(value) <= 0 {
		return ErrMissingData
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.values[key] = valueCopy
	return nil
}

func (s *inMemorySecureStorage) Remove(key string) error {
	if len(key) <= 0 {
		return ErrMissingDataKey
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.values, key)
	return nil
}

func (s *inMemorySecureStorage) Has(key string) (bool, error) {
	if len(key) <= 0 {
		return false, ErrMissingDataKey
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.values[key]
	return ok, nil
}

func (s *inMemorySecureStorage) WipeAll() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.values = map[string][]byte{}
	return nil
}
