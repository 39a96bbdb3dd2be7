package users

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeBatch normalizes a write payload into a canonical slice of records.
// A single JSON object and a one-element JSON array are equivalent inputs;
// the rest of the write path only ever sees a slice. Validation is left to
// the caller so that decode errors and validation errors stay distinct in
// logs.
func DecodeBatch(payload []byte) ([]User, error) {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, ErrMalformedPayload
	}

	switch trimmed[0] {
	case '[':
		var batch []User
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return batch, nil
	case '{':
		var u User
		if err := json.Unmarshal(trimmed, &u); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return []User{u}, nil
	default:
		return nil, ErrMalformedPayload
	}
}
