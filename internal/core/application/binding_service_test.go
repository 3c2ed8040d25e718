package application_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halcyonwallet/custodyd/internal/core/application"
	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
)

func TestCurrentStatusLazyInit(t *testing.T) {
	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(map[domain.SystemType]struct{}{
		domain.SystemTypeBank: {},
	})

	binder := newTestBinder(t, &mockNetworkInfoFetcher{}, &mockTransactionSubmitter{}, snapshot)

	// an already linked system starts binded, any other starts not binded.
	assert.Equal(t, domain.StatusBinded, binder.CurrentStatus(domain.SystemTypeBank))
	assert.Equal(t, domain.StatusNotBinded, binder.CurrentStatus(domain.SystemTypeExchange))
}

func TestBindSucceeds(t *testing.T) {
	fetcher := &mockNetworkInfoFetcher{}
	fetcher.On("FetchNetworkInfo").Return(testNetworkInfo(), nil)

	submitter := &mockTransactionSubmitter{}
	submitter.On("Submit", mock.AnythingOfType("string")).Return(nil)

	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(nil)
	snapshot.On("Refresh").Return(nil)

	binder := newTestBinder(t, fetcher, submitter, snapshot)
	statuses := binder.ObserveStatus(domain.SystemTypeBank)

	done := make(chan error, 1)
	binder.Bind(domain.SystemTypeBank, func(err error) { done <- err })

	require.NoError(t, waitCompletion(t, done))

	assert.Equal(t, []domain.BindingStatus{
		domain.StatusNotBinded, // replayed on subscription
		domain.StatusBinding,
		domain.StatusBinded,
	}, drainStatuses(statuses))
	assert.Equal(t, domain.StatusBinded, binder.CurrentStatus(domain.SystemTypeBank))

	submitter.AssertNumberOfCalls(t, "Submit", 1)
	snapshot.AssertCalled(t, "Refresh")
}

func TestBindGuardsAgainstDuplicateAttempts(t *testing.T) {
	release := make(chan struct{})

	fetcher := &mockNetworkInfoFetcher{}
	fetcher.On("FetchNetworkInfo").Run(func(_ mock.Arguments) {
		<-release
	}).Return(testNetworkInfo(), nil)

	submitter := &mockTransactionSubmitter{}
	submitter.On("Submit", mock.AnythingOfType("string")).Return(nil)

	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(nil)
	snapshot.On("Refresh").Return(nil)

	binder := newTestBinder(t, fetcher, submitter, snapshot)
	statuses := binder.ObserveStatus(domain.SystemTypeBank)

	done := make(chan error, 2)
	binder.Bind(domain.SystemTypeBank, func(err error) { done <- err })
	// second request while the first is in flight: no transition, no callback.
	binder.Bind(domain.SystemTypeBank, func(err error) { done <- err })

	close(release)
	require.NoError(t, waitCompletion(t, done))

	select {
	case <-done:
		t.Fatal("the guarded bind call must not invoke its completion")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, []domain.BindingStatus{
		domain.StatusNotBinded,
		domain.StatusBinding,
		domain.StatusBinded,
	}, drainStatuses(statuses))

	fetcher.AssertNumberOfCalls(t, "FetchNetworkInfo", 1)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
}

func TestBindRollsBackOnNetworkFetchFailure(t *testing.T) {
	fetchErr := errors.New("ledger unreachable")

	fetcher := &mockNetworkInfoFetcher{}
	fetcher.On("FetchNetworkInfo").Return(nil, fetchErr)

	// the account is already linked: rollback must restore binded, not
	// not_binded.
	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(map[domain.SystemType]struct{}{
		domain.SystemTypeBank: {},
	})

	binder := newTestBinder(t, fetcher, &mockTransactionSubmitter{}, snapshot)
	statuses := binder.ObserveStatus(domain.SystemTypeBank)
	bindErrs := binder.ObserveErrors()

	done := make(chan error, 1)
	binder.Bind(domain.SystemTypeBank, func(err error) { done <- err })

	require.EqualError(t, waitCompletion(t, done), fetchErr.Error())

	select {
	case err := <-bindErrs:
		require.EqualError(t, err, fetchErr.Error())
	case <-time.After(time.Second):
		t.Fatal("expected an error on the error stream")
	}

	assert.Equal(t, []domain.BindingStatus{
		domain.StatusBinded,
		domain.StatusBinding,
		domain.StatusBinded, // rolled back to the pre-attempt status
	}, drainStatuses(statuses))
	assert.Equal(t, domain.StatusBinded, binder.CurrentStatus(domain.SystemTypeBank))
}

func TestBindRollsBackOnSubmitFailure(t *testing.T) {
	serverErr := errors.New("tx rejected")

	fetcher := &mockNetworkInfoFetcher{}
	fetcher.On("FetchNetworkInfo").Return(testNetworkInfo(), nil)

	submitter := &mockTransactionSubmitter{}
	submitter.On("Submit", mock.AnythingOfType("string")).Return(serverErr)

	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(nil)

	binder := newTestBinder(t, fetcher, submitter, snapshot)
	statuses := binder.ObserveStatus(domain.SystemTypeExchange)
	bindErrs := binder.ObserveErrors()

	done := make(chan error, 1)
	binder.Bind(domain.SystemTypeExchange, func(err error) { done <- err })

	require.EqualError(t, waitCompletion(t, done), serverErr.Error())

	select {
	case err := <-bindErrs:
		require.EqualError(t, err, serverErr.Error())
	case <-time.After(time.Second):
		t.Fatal("expected an error on the error stream")
	}

	assert.Equal(t, []domain.BindingStatus{
		domain.StatusNotBinded,
		domain.StatusBinding,
		domain.StatusNotBinded,
	}, drainStatuses(statuses))

	// no refresh on failure.
	snapshot.AssertNotCalled(t, "Refresh")
}

func TestBindFailsWithoutSigningKey(t *testing.T) {
	fetcher := &mockNetworkInfoFetcher{}
	fetcher.On("FetchNetworkInfo").Return(testNetworkInfo(), nil)

	snapshot := &mockAccountSnapshotProvider{}
	snapshot.On("CurrentAccountLinks").Return(nil)

	// an empty session vault: no key for the wallet account.
	binder := application.NewBindingService(
		"wallet-1",
		application.NewSessionKeyVault(),
		application.NewSignerService(&mockTransactionSubmitter{}),
		fetcher,
		snapshot,
	)

	done := make(chan error, 1)
	binder.Bind(domain.SystemTypeBank, func(err error) { done <- err })

	require.EqualError(t, waitCompletion(t, done), application.ErrNoSigningKey.Error())
	assert.Equal(t, domain.StatusNotBinded, binder.CurrentStatus(domain.SystemTypeBank))
}

func newTestBinder(
	t *testing.T,
	fetcher ports.NetworkInfoFetcher,
	submitter ports.TransactionSubmitter,
	snapshot ports.AccountSnapshotProvider,
) *application.BindingService {
	t.Helper()

	vault := application.NewSessionKeyVault()
	require.NoError(t, vault.SaveKey(newTestKey(t), "alice@example.com"))

	return application.NewBindingService(
		"wallet-1", vault, application.NewSignerService(submitter), fetcher, snapshot,
	)
}

func testNetworkInfo() *ports.NetworkInfo {
	return &ports.NetworkInfo{
		ChainID:      "custody-testnet",
		LedgerHeight: 1042,
		BaseFee:      decimal.NewFromInt(100),
	}
}

func waitCompletion(t *testing.T, done chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the bind completion")
		return nil
	}
}

func drainStatuses(ch <-chan domain.BindingStatus) []domain.BindingStatus {
	statuses := []domain.BindingStatus{}
	for {
		select {
		case status := <-ch:
			statuses = append(statuses, status)
		default:
			return statuses
		}
	}
}
