package application_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
)

// **** NetworkInfoFetcher ****

type mockNetworkInfoFetcher struct {
	mock.Mock
}

func (m *mockNetworkInfoFetcher) FetchNetworkInfo() (*ports.NetworkInfo, error) {
	args := m.Called()

	var res *ports.NetworkInfo
	if a := args.Get(0); a != nil {
		res = a.(*ports.NetworkInfo)
	}
	return res, args.Error(1)
}

// **** TransactionSubmitter ****

type mockTransactionSubmitter struct {
	mock.Mock
}

func (m *mockTransactionSubmitter) Submit(envelopeBase64 string) error {
	args := m.Called(envelopeBase64)
	return args.Error(0)
}

// **** AccountSnapshotProvider ****

type mockAccountSnapshotProvider struct {
	mock.Mock
}

func (m *mockAccountSnapshotProvider) CurrentAccountLinks() map[domain.SystemType]struct{} {
	args := m.Called()

	var res map[domain.SystemType]struct{}
	if a := args.Get(0); a != nil {
		res = a.(map[domain.SystemType]struct{})
	}
	return res
}

func (m *mockAccountSnapshotProvider) Refresh() error {
	args := m.Called()
	return args.Error(0)
}
