package keypair

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// Sign produces a DER-serialized ECDSA signature over the sha256 digest of
// the provided message, verifying it against the public key before returning.
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	if len(message) <= 0 {
		return nil, ErrNullMessage
	}

	hash := sha256.Sum256(message)
	signature := ecdsa.Sign(k.privateKey, hash[:])

	if !signature.Verify(hash[:], k.privateKey.PubKey()) {
		return nil, fmt.Errorf("signature verification failed")
	}

	return signature.Serialize(), nil
}

// Verify checks a DER-serialized signature over the sha256 digest of the
// message against the encoded public key.
func Verify(encodedPubKey string, message, signature []byte) (bool, error) {
	if len(message) <= 0 {
		return false, ErrNullMessage
	}
	if len(signature) <= 0 {
		return false, ErrNullSignature
	}

	rawPubKey, version, err := base58.CheckDecode(encodedPubKey)
	if err != nil || version != AccountVersionByte {
		return false, ErrInvalidPublicKeyEncoding
	}
	pubKey, err := btcec.ParsePubKey(rawPubKey)
	if err != nil {
		return false, ErrInvalidPublicKeyEncoding
	}

	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false, err
	}

	hash := sha256.Sum256(message)
	return sig.Verify(hash[:], pubKey), nil
}
