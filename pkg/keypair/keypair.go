package keypair

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// SeedLen is the length in bytes of a raw private seed.
	SeedLen = 32

	// SeedVersionByte is the version byte prepended to the checksummed
	// textual encoding of a private seed.
	SeedVersionByte byte = 0x35
	// AccountVersionByte is the version byte prepended to the checksummed
	// textual encoding of a public key.
	AccountVersionByte byte = 0x3a
)

var (
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrInvalidSeedLength ...
	ErrInvalidSeedLength = errors.New("seed must be a 32 byte array")
	// ErrInvalidSeedEncoding ...
	ErrInvalidSeedEncoding = errors.New("encoded seed is malformed or has wrong version byte")
	// ErrInvalidPublicKeyEncoding ...
	ErrInvalidPublicKeyEncoding = errors.New("encoded public key is malformed or has wrong version byte")
	// ErrNullMessage ...
	ErrNullMessage = errors.New("message to sign must not be null")
	// ErrNullSignature ...
	ErrNullSignature = errors.New("signature must not be null")
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrNullAccount ...
	ErrNullAccount = errors.New("account must not be null")
)

// KeyPair holds the private seed of an account and the key pair derived from
// it. The raw seed never leaves the struct other than through Seed (as a
// defensive copy) or Encode (as the checksummed textual form meant for
// storage).
type KeyPair struct {
	seed       []byte
	privateKey *btcec.PrivateKey
}

// FromSeed returns a KeyPair derived from the provided raw seed bytes.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) <= 0 {
		return nil, ErrNullSeed
	}
	if len(seed) != SeedLen {
		return nil, ErrInvalidSeedLength
	}

	seedCopy := make([]byte, SeedLen)
	copy(seedCopy, seed)
	privateKey, _ := btcec.PrivKeyFromBytes(seedCopy)

	return &KeyPair{seed: seedCopy, privateKey: privateKey}, nil
}

// Decode returns the KeyPair for a seed in its checksummed textual encoding.
func Decode(encodedSeed string) (*KeyPair, error) {
	if len(encodedSeed) <= 0 {
		return nil, ErrNullSeed
	}

	seed, version, err := base58.CheckDecode(encodedSeed)
	if err != nil || version != SeedVersionByte {
		return nil, ErrInvalidSeedEncoding
	}

	return FromSeed(seed)
}

func (k *KeyPair) validate() error {
	if k == nil || len(k.seed) <= 0 {
		return ErrNullSeed
	}
	if len(k.seed) != SeedLen {
		return ErrInvalidSeedLength
	}
	return nil
}

// Seed returns a copy of the raw private seed.
func (k *KeyPair) Seed() []byte {
	seedCopy := make([]byte, len(k.seed))
	copy(seedCopy, k.seed)
	return seedCopy
}

// Encode returns the version-tagged, checksummed textual encoding of the
// private seed, the only form meant to be persisted.
func (k *KeyPair) Encode() string {
	return base58.CheckEncode(k.seed, SeedVersionByte)
}

// PublicKeyString returns the version-tagged, checksummed textual encoding of
// the compressed public key.
func (k *KeyPair) PublicKeyString() string {
	return base58.CheckEncode(
		k.privateKey.PubKey().SerializeCompressed(), AccountVersionByte,
	)
}
