package keypair

import (
	"crypto/sha256"

	"golang.org/x/crypto/scrypt"
)

const derivationContext = "custody-key-derivation"

// FromPasswordOpts is the struct given to the FromPassword method
type FromPasswordOpts struct {
	Password string
	Account  string
}

func (o FromPasswordOpts) validate() error {
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	if len(o.Account) <= 0 {
		return ErrNullAccount
	}
	return nil
}

// FromPassword deterministically derives a KeyPair from a password, salted
// with the account identifier. The same password and account always yield
// the same seed, so a derived key can be validated against a stored one.
func FromPassword(opts FromPasswordOpts) (*KeyPair, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	salt := sha256.Sum256([]byte(derivationContext + ":" + opts.Account))
	seed, err := scrypt.Key([]byte(opts.Password), salt[:], 32768, 8, 1, SeedLen)
	if err != nil {
		return nil, err
	}

	return FromSeed(seed)
}

// PasswordDeriver adapts FromPassword to the KeyDeriver collaborator
// interface consumed by the custody core.
type PasswordDeriver struct{}

// DeriveFromPassword implements the KeyDeriver interface.
func (d PasswordDeriver) DeriveFromPassword(password, account string) (*KeyPair, error) {
	return FromPassword(FromPasswordOpts{Password: password, Account: account})
}
