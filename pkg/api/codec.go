// Package api defines the request and response messages of the splitledger
// RPC services. Amounts travel as decimal strings with two places; dates as
// YYYY-MM-DD; timestamps as unix seconds.
package api

import "github.com/goccy/go-json"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Codec encodes messages as JSON. It registers under the name "json", so
// Connect clients send and accept application/json.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
