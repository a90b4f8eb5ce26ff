package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxRequestBodyBytes caps request bodies to keep a malformed or malicious
// payload from exhausting memory.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into dst, rejecting unknown fields
// and oversized payloads.
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}
