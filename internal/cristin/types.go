// Package cristin provides a client for the CRISTIN registry's person and
// result endpoints.
package cristin

import (
	"github.com/tidwall/gjson"
)

// Record is a raw result or person payload. The registry gives no schema
// guarantees, so records are kept as JSON and read through gjson paths;
// object keys keep their document order, which matters for multilingual
// fields such as {"nb": "...", "en": "..."}.
type Record struct {
	gjson.Result
}

// ParseRecord wraps a JSON document as a Record.
func ParseRecord(raw string) Record {
	return Record{Result: gjson.Parse(raw)}
}

// MarshalJSON writes the record back out verbatim.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(r.Raw), nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.Result = gjson.ParseBytes(data)
	return nil
}
