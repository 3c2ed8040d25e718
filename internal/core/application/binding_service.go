package application

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
)

// statusObserverBuffer is the capacity of observer channels. A slow observer
// drops updates instead of blocking the state machine.
const statusObserverBuffer = 10

// BindingService drives the binding of the wallet account to external
// systems: a small per-system-type state machine
// (notBinded -> binding -> binded) around a sign-and-submit call, with
// rollback to the pre-attempt status on failure.
//
// All shared state lives behind a single mutex so the "one in-flight attempt
// per system type" invariant holds regardless of caller threading. A Bind
// call observed while the type is already binding is silently ignored: no
// completion, no transition. There is no queueing, no internal retry and no
// cancellation, a caller that wants to retry polls CurrentStatus and
// re-invokes.
type BindingService struct {
	walletID string
	vault    KeyVault
	signer   *SignerService
	fetcher  ports.NetworkInfoFetcher
	snapshot ports.AccountSnapshotProvider

	mtx             sync.Mutex
	statuses        map[domain.SystemType]domain.BindingStatus
	statusObservers map[domain.SystemType][]chan domain.BindingStatus
	errObservers    []chan error
}

// NewBindingService returns a BindingService for the given wallet.
func NewBindingService(
	walletID string,
	vault KeyVault,
	signer *SignerService,
	fetcher ports.NetworkInfoFetcher,
	snapshot ports.AccountSnapshotProvider,
) *BindingService {
	return &BindingService{
		walletID:        walletID,
		vault:           vault,
		signer:          signer,
		fetcher:         fetcher,
		snapshot:        snapshot,
		statuses:        map[domain.SystemType]domain.BindingStatus{},
		statusObservers: map[domain.SystemType][]chan domain.BindingStatus{},
	}
}

// CurrentStatus returns the binding status for the given system type,
// lazily initialized from the account snapshot on first query.
func (s *BindingService) CurrentStatus(systemType domain.SystemType) domain.BindingStatus {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.currentStatus(systemType)
}

// ObserveStatus returns a hot stream of status transitions for the given
// system type. The current value is replayed immediately to the new
// subscriber.
func (s *BindingService) ObserveStatus(systemType domain.SystemType) <-chan domain.BindingStatus {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ch := make(chan domain.BindingStatus, statusObserverBuffer)
	s.statusObservers[systemType] = append(s.statusObservers[systemType], ch)
	ch <- s.currentStatus(systemType)
	return ch
}

// ObserveErrors returns a stream of the failures occurred during bind
// attempts. Status changes are pushed separately on the status streams.
func (s *BindingService) ObserveErrors() <-chan error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ch := make(chan error, statusObserverBuffer)
	s.errObservers = append(s.errObservers, ch)
	return ch
}

// Bind starts a binding attempt for the given system type. The attempt runs
// asynchronously: completion is invoked with nil on success or with the
// underlying error after the status has been rolled back. A duplicate call
// while an attempt is in flight is ignored without invoking completion.
func (s *BindingService) Bind(systemType domain.SystemType, completion func(error)) {
	attemptID := uuid.New().String()

	s.mtx.Lock()
	prevStatus := s.currentStatus(systemType)
	if prevStatus == domain.StatusBinding {
		s.mtx.Unlock()
		log.Debugf(
			"binder: ignoring bind request for %s, attempt already in flight",
			systemType,
		)
		return
	}
	s.setStatus(systemType, domain.StatusBinding)
	s.mtx.Unlock()

	log.WithField("attempt_id", attemptID).
		Debugf("binder: starting bind attempt for %s", systemType)

	go s.runBind(systemType, prevStatus, attemptID, completion)
}

func (s *BindingService) runBind(
	systemType domain.SystemType,
	prevStatus domain.BindingStatus,
	attemptID string,
	completion func(error),
) {
	networkInfo, err := s.fetcher.FetchNetworkInfo()
	if err != nil {
		s.failAttempt(systemType, prevStatus, attemptID, err, completion)
		return
	}

	tx, err := domain.NewUnsignedTransaction(
		s.walletID, bindingPayload(s.walletID, systemType, networkInfo),
	)
	if err != nil {
		s.failAttempt(systemType, prevStatus, attemptID, err, completion)
		return
	}

	envelope, err := s.signer.Sign(tx, s.vault.PrivateKey())
	if err != nil {
		s.failAttempt(systemType, prevStatus, attemptID, err, completion)
		return
	}

	if err := s.signer.Submit(envelope); err != nil {
		s.failAttempt(systemType, prevStatus, attemptID, err, completion)
		return
	}

	if err := s.snapshot.Refresh(); err != nil {
		// the link is settled on the ledger at this point, a stale local
		// snapshot corrects itself on the next refresh.
		log.WithError(err).Warn("binder: failed to refresh account snapshot")
	}

	s.mtx.Lock()
	s.setStatus(systemType, domain.StatusBinded)
	s.mtx.Unlock()

	log.WithField("attempt_id", attemptID).
		Debugf("binder: bind attempt for %s succeeded", systemType)

	if completion != nil {
		completion(nil)
	}
}

func (s *BindingService) failAttempt(
	systemType domain.SystemType,
	prevStatus domain.BindingStatus,
	attemptID string,
	err error,
	completion func(error),
) {
	log.WithError(err).WithField("attempt_id", attemptID).
		Warnf("binder: bind attempt for %s failed", systemType)

	s.mtx.Lock()
	for _, ch := range s.errObservers {
		select {
		case ch <- err:
		default:
			log.Warn("binder: dropped error notification for slow observer")
		}
	}
	s.setStatus(systemType, prevStatus)
	s.mtx.Unlock()

	if completion != nil {
		completion(err)
	}
}

// currentStatus must be called with the mutex held.
func (s *BindingService) currentStatus(systemType domain.SystemType) domain.BindingStatus {
	status, ok := s.statuses[systemType]
	if !ok {
		status = domain.StatusNotBinded
		if _, linked := s.snapshot.CurrentAccountLinks()[systemType]; linked {
			status = domain.StatusBinded
		}
		s.statuses[systemType] = status
	}
	return status
}

// setStatus must be called with the mutex held.
func (s *BindingService) setStatus(
	systemType domain.SystemType, status domain.BindingStatus,
) {
	s.statuses[systemType] = status
	for _, ch := range s.statusObservers[systemType] {
		select {
		case ch <- status:
		default:
			log.Warnf(
				"binder: dropped status notification %s for slow observer", status,
			)
		}
	}
}

// bindingPayload builds the canonical bytes of a binding operation. The full
// transaction building DSL lives outside the custody core, binding is the
// one operation built here.
func bindingPayload(
	walletID string, systemType domain.SystemType, info *ports.NetworkInfo,
) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"op":            "bind",
		"wallet_id":     walletID,
		"system":        systemType,
		"chain_id":      info.ChainID,
		"ledger_height": info.LedgerHeight,
		"base_fee":      info.BaseFee,
	})
	return payload
}
