package explorer

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
)

// Service groups the network collaborators of the custody core, all served
// by the same ledger explorer API.
type Service interface {
	ports.NetworkInfoFetcher
	ports.TransactionSubmitter
	ports.AccountSnapshotProvider
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

type explorerService struct {
	apiURL  string
	account string

	breaker *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter

	linksMtx sync.RWMutex
	links    map[domain.SystemType]struct{}
}

// NewService returns an explorer-backed Service for the given account. The
// endpoint must answer the health check for the service to be created.
func NewService(apiURL, account string) (Service, error) {
	service := &explorerService{
		apiURL:  apiURL,
		account: account,
		breaker: newCircuitBreaker(),
		limiter: ratelimit.New(1),
		links:   map[domain.SystemType]struct{}{},
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (e *explorerService) healthCheck() error {
	url := fmt.Sprintf("%s/info", e.apiURL)
	status, resp, err := e.newHTTPRequest("GET", url, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf(resp)
	}
	return nil
}

// newHTTPRequest performs an HTTP call through the circuit breaker and
// returns the status code along with the raw response body.
func (e *explorerService) newHTTPRequest(
	method, url, bodyString string,
) (int, string, error) {
	type httpResponse struct {
		status int
		body   string
	}

	resp, err := e.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		if len(bodyString) > 0 {
			body = strings.NewReader(bodyString)
		}
		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return nil, err
		}
		if len(bodyString) > 0 {
			req.Header.Set("Content-Type", "text/plain")
		}

		rs, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer rs.Body.Close()

		bodyBytes, err := io.ReadAll(rs.Body)
		if err != nil {
			return nil, err
		}

		return httpResponse{rs.StatusCode, string(bodyBytes)}, nil
	})
	if err != nil {
		return 0, "", err
	}

	r := resp.(httpResponse)
	return r.status, r.body, nil
}
