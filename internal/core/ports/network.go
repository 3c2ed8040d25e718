package ports

import "github.com/shopspring/decimal"

// NetworkInfo holds the ledger parameters required to build an operation.
type NetworkInfo struct {
	ChainID      string
	LedgerHeight uint64
	BaseFee      decimal.Decimal
}

// NetworkInfoFetcher abstracts the retrieval of current ledger parameters.
type NetworkInfoFetcher interface {
	FetchNetworkInfo() (*NetworkInfo, error)
}

// TransactionSubmitter abstracts the submission of a signed envelope, in its
// base64 encoded form, to the network.
type TransactionSubmitter interface {
	Submit(envelopeBase64 string) error
}
