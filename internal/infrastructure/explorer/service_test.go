package explorer_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/infrastructure/explorer"
)

func TestNewService(t *testing.T) {
	server := newTestServer(t)

	svc, err := explorer.NewService(server.URL, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestFailingNewService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	))
	t.Cleanup(server.Close)

	svc, err := explorer.NewService(server.URL, "alice@example.com")
	require.Error(t, err)
	require.Nil(t, svc)
}

func TestFetchNetworkInfo(t *testing.T) {
	server := newTestServer(t)

	svc, err := explorer.NewService(server.URL, "alice@example.com")
	require.NoError(t, err)

	info, err := svc.FetchNetworkInfo()
	require.NoError(t, err)
	assert.Equal(t, "custody-testnet", info.ChainID)
	assert.Equal(t, uint64(1042), info.LedgerHeight)
	assert.Equal(t, "100", info.BaseFee.String())
}

func TestSubmit(t *testing.T) {
	server := newTestServer(t)

	svc, err := explorer.NewService(server.URL, "alice@example.com")
	require.NoError(t, err)

	err = svc.Submit("ZW52ZWxvcGU=")
	require.NoError(t, err)
}

func TestAccountLinksRefresh(t *testing.T) {
	server := newTestServer(t)

	svc, err := explorer.NewService(server.URL, "alice@example.com")
	require.NoError(t, err)

	// no snapshot fetched yet.
	assert.Empty(t, svc.CurrentAccountLinks())

	err = svc.Refresh()
	require.NoError(t, err)

	links := svc.CurrentAccountLinks()
	assert.Contains(t, links, domain.SystemTypeBank)
	assert.NotContains(t, links, domain.SystemTypeExchange)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(
			`{"chain_id":"custody-testnet","ledger_height":1042,"base_fee":"100"}`,
		))
	})
	mux.HandleFunc("/tx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte(`"ok"`))
	})
	mux.HandleFunc(
		"/account/alice@example.com/links",
		func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`["bank"]`))
		},
	)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
