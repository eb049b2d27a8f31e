package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier for a node, socket, edge or scene.
//
// IDs are written as JSON strings. Older files wrote numeric ids; those are
// accepted on read and kept as their decimal text.
type ID string

// String returns the id as a string.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*id = ID(n.String())
	return nil
}
