package domain

import "encoding/json"

// accountListVersion is the version tag written by EncodeAccountList. Decoding
// dispatches on this tag so that a future format change can be introduced
// without breaking blobs written by older releases.
const accountListVersion = 1

type accountListBlob struct {
	Version uint32          `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeAccountList serializes the ordered list of account identifiers into
// a version-tagged blob. The whole list is always rewritten, there is no
// partial update of the stored blob.
func EncodeAccountList(accounts []string) ([]byte, error) {
	payload, err := json.Marshal(accounts)
	if err != nil {
		return nil, err
	}

	return json.Marshal(accountListBlob{
		Version: accountListVersion,
		Payload: payload,
	})
}

// DecodeAccountList deserializes a version-tagged account list blob. An
// unrecognized version fails closed with ErrUnknownListVersion so that data
// written by a newer release is never misread or truncated.
func DecodeAccountList(blob []byte) ([]string, error) {
	var decoded accountListBlob
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return nil, ErrMalformedAccountList
	}

	switch decoded.Version {
	case accountListVersion:
		var accounts []string
		if err := json.Unmarshal(decoded.Payload, &accounts); err != nil {
			return nil, ErrMalformedAccountList
		}
		return accounts, nil
	default:
		return nil, ErrUnknownListVersion
	}
}
