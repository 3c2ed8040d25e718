package ports

import (
	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/pkg/keypair"
)

// AccountSnapshotProvider abstracts the locally cached view of the active
// account's on-chain state.
type AccountSnapshotProvider interface {
	// CurrentAccountLinks returns the set of external systems the account is
	// currently linked to, according to the last fetched snapshot.
	CurrentAccountLinks() map[domain.SystemType]struct{}
	// Refresh re-fetches the snapshot from the network.
	Refresh() error
}

// KeyDeriver abstracts the password-based derivation of a signing key pair.
type KeyDeriver interface {
	DeriveFromPassword(password, account string) (*keypair.KeyPair, error)
}
