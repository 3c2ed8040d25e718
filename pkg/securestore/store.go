package securestore

// SecureStorage interface defines the methods for a key/value store that
// secures its content by encrypting the values of the pairs at rest.
type SecureStorage interface {
	// Lock locks the store once unlocked.
	Lock()
	// Close closes the connection to the store.
	Close() (err error)
	// IsLocked returns whether the store is (un)locked.
	IsLocked() (locked bool)
	// CreateUnlock creates or unlocks the store with a password.
	CreateUnlock(password *[]byte) (err error)
	// GetString retrieves the string value for the given key.
	// A missing key yields an empty string, not an error.
	GetString(key string) (value string, err error)
	// SetString stores the string value under the given key.
	SetString(key, value string) (err error)
	// GetData retrieves the raw value for the given key.
	// A missing key yields a nil slice, not an error.
	GetData(key string) (value []byte, err error)
	// SetData stores the raw value under the given key.
	SetData(key string, value []byte) (err error)
	// Remove deletes the entry identified by the given key.
	Remove(key string) (err error)
	// Has returns whether an entry exists for the given key.
	Has(key string) (found bool, err error)
	// WipeAll removes every entry from the store.
	WipeAll() (err error)
}
