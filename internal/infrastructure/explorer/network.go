package explorer

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/halcyonwallet/custodyd/internal/core/ports"
)

type networkInfoResponse struct {
	ChainID      string          `json:"chain_id"`
	LedgerHeight uint64          `json:"ledger_height"`
	BaseFee      decimal.Decimal `json:"base_fee"`
}

// FetchNetworkInfo retrieves the current ledger parameters.
func (e *explorerService) FetchNetworkInfo() (*ports.NetworkInfo, error) {
	url := fmt.Sprintf("%s/info", e.apiURL)
	status, resp, err := e.newHTTPRequest("GET", url, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf(resp)
	}

	info := networkInfoResponse{}
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return nil, err
	}

	return &ports.NetworkInfo{
		ChainID:      info.ChainID,
		LedgerHeight: info.LedgerHeight,
		BaseFee:      info.BaseFee,
	}, nil
}

// Submit broadcasts the base64 encoded envelope to the network. Submissions
// are rate limited client-side.
func (e *explorerService) Submit(envelopeBase64 string) error {
	e.limiter.Take()

	url := fmt.Sprintf("%s/tx", e.apiURL)
	status, resp, err := e.newHTTPRequest("POST", url, envelopeBase64)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf(resp)
	}
	return nil
}
