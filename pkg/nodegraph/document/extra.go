package document

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Known field names per type. Anything else is carried in Extra.
var (
	documentFields = []string{"version", "id", "nodes", "edges"}
	nodeFields     = []string{"id", "title", "pos_x", "pos_y", "inputs", "outputs", "content"}
	socketFields   = []string{"id", "index", "socket_type", "max_connections"}
	edgeFields     = []string{"id", "edge_type", "start", "end"}
)

type (
	documentAlias Document
	nodeAlias     Node
	socketAlias   Socket
	edgeAlias     Edge
)

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(documentAlias(d), d.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	var a documentAlias
	extra, err := decodeWithExtra(data, &a, documentFields)
	if err != nil {
		return err
	}
	*d = Document(a)
	d.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(nodeAlias(n), n.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var a nodeAlias
	extra, err := decodeWithExtra(data, &a, nodeFields)
	if err != nil {
		return err
	}
	*n = Node(a)
	n.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Socket) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(socketAlias(s), s.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Socket) UnmarshalJSON(data []byte) error {
	var a socketAlias
	extra, err := decodeWithExtra(data, &a, socketFields)
	if err != nil {
		return err
	}
	*s = Socket(a)
	s.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Edge) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(edgeAlias(e), e.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var a edgeAlias
	extra, err := decodeWithExtra(data, &a, edgeFields)
	if err != nil {
		return err
	}
	*e = Edge(a)
	e.Extra = extra
	return nil
}

// decodeWithExtra decodes data into target and returns the fields not listed
// in known.
func decodeWithExtra(data []byte, target any, known []string) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// encodeWithExtra encodes v and appends the extra fields after the known
// ones, in key order. Extra keys never override known fields.
func encodeWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, clash := known[k]; !clash {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1]) // drop closing brace
	needComma := len(known) > 0
	for _, k := range keys {
		if needComma {
			buf.WriteByte(',')
		}
		needComma = true
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		raw := extra[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
