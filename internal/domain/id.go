package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a caller-facing vehicle or job identifier.
// Callers may send ids as JSON strings or integers; both are kept as their
// string form and always reported back as strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("id: must be a string or an integer")
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("id: must be a string or an integer")
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id: %q is not an integer", n.String())
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }
