package application

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
	"github.com/halcyonwallet/custodyd/pkg/keypair"
)

// SignerService is the transaction signing pipeline: it attaches exactly one
// signature to an unsigned payload and hands the resulting envelope to the
// network submitter. It performs no retry and no local state mutation on
// failure, rollback policy belongs to the caller.
type SignerService struct {
	submitter ports.TransactionSubmitter

	mtx         sync.RWMutex
	subscribers []chan string
}

// NewSignerService returns a SignerService submitting through the given
// collaborator.
func NewSignerService(submitter ports.TransactionSubmitter) *SignerService {
	return &SignerService{submitter: submitter}
}

// Sign computes a signature from the key over the transaction's canonical
// bytes and returns the envelope carrying it.
func (s *SignerService) Sign(
	tx *domain.UnsignedTransaction, key *keypair.KeyPair,
) (*domain.SignedEnvelope, error) {
	if key == nil {
		return nil, ErrNoSigningKey
	}
	if tx == nil || len(tx.Payload) <= 0 {
		return nil, domain.ErrNullTransactionPayload
	}

	signature, err := key.Sign(tx.Payload)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	envelope := domain.NewEnvelope(tx)
	if err := envelope.AddSignature(signature, key.PublicKeyString()); err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	return envelope, nil
}

// Submit serializes the envelope and sends it to the network. On success the
// transaction id is broadcast to subscribers, a fire-and-forget notification
// not required for the caller's correctness. On failure the underlying error
// is returned untouched.
func (s *SignerService) Submit(envelope *domain.SignedEnvelope) error {
	encoded, err := envelope.Marshal()
	if err != nil {
		return err
	}

	if err := s.submitter.Submit(encoded); err != nil {
		return err
	}

	s.notifySubmitted(envelope.TxID())
	return nil
}

// SubscribeSubmitted returns a channel receiving the id of every transaction
// submitted successfully from now on.
func (s *SignerService) SubscribeSubmitted() <-chan string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ch := make(chan string, 10)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *SignerService) notifySubmitted(txID string) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- txID:
		default:
			log.Warnf("signer: dropped submitted notification for tx %s", txID)
		}
	}
}
