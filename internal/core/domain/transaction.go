package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// UnsignedTransaction is the canonical payload of an operation yet to be
// signed. The payload bytes come from an external transaction builder, the
// custody core treats them as opaque.
type UnsignedTransaction struct {
	WalletID string
	Payload  []byte
}

// NewUnsignedTransaction returns an UnsignedTransaction for the given wallet
// and canonical payload bytes.
func NewUnsignedTransaction(walletID string, payload []byte) (*UnsignedTransaction, error) {
	if len(walletID) <= 0 {
		return nil, ErrNullWalletID
	}
	if len(payload) <= 0 {
		return nil, ErrNullTransactionPayload
	}

	return &UnsignedTransaction{WalletID: walletID, Payload: payload}, nil
}

// SignedEnvelope is an unsigned payload plus exactly one signature, ready for
// network submission. It is transient, built, submitted and discarded within
// a single signing-submission call.
type SignedEnvelope struct {
	WalletID        string `json:"wallet_id"`
	Payload         []byte `json:"payload"`
	Signature       []byte `json:"signature,omitempty"`
	SignerPublicKey string `json:"signer_public_key,omitempty"`
}

// NewEnvelope wraps an unsigned transaction into an envelope with no
// signature attached yet.
func NewEnvelope(tx *UnsignedTransaction) *SignedEnvelope {
	return &SignedEnvelope{WalletID: tx.WalletID, Payload: tx.Payload}
}

// AddSignature attaches the one and only signature to the envelope. Attaching
// a second one fails with ErrAlreadySigned.
func (e *SignedEnvelope) AddSignature(signature []byte, signerPublicKey string) error {
	if len(e.Signature) > 0 {
		return ErrAlreadySigned
	}
	if len(signature) <= 0 {
		return ErrMissingSignature
	}

	e.Signature = signature
	e.SignerPublicKey = signerPublicKey
	return nil
}

// TxID returns the hex-encoded sha256 digest of the signed payload, used to
// identify the submitted transaction in logs and notifications.
func (e *SignedEnvelope) TxID() string {
	hash := sha256.Sum256(append(e.Payload, e.Signature...))
	return hex.EncodeToString(hash[:])
}

// Marshal serializes the envelope to its base64, submission-ready form.
func (e *SignedEnvelope) Marshal() (string, error) {
	if len(e.Signature) <= 0 {
		return "", ErrMissingSignature
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// UnmarshalEnvelope decodes an envelope from its base64 submission form.
func UnmarshalEnvelope(encoded string) (*SignedEnvelope, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	envelope := &SignedEnvelope{}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}
