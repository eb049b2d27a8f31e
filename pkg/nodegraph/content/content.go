package content

import (
	"encoding/json"
	"fmt"
)

// Content is the capability a node payload provides to the serializer.
type Content interface {
	// ContentType returns the registered type name.
	ContentType() string

	// MarshalContent encodes the payload.
	MarshalContent() (json.RawMessage, error)

	// UnmarshalContent replaces the payload with the decoded data.
	UnmarshalContent(data json.RawMessage) error
}

// Raw is content of an unregistered type. It round-trips its bytes unchanged.
type Raw struct {
	Type string
	Data json.RawMessage
}

// Compile-time interface check.
var _ Content = (*Raw)(nil)

// ContentType implements Content.
func (r *Raw) ContentType() string {
	return r.Type
}

// MarshalContent implements Content.
func (r *Raw) MarshalContent() (json.RawMessage, error) {
	return clone(r.Data), nil
}

// UnmarshalContent implements Content.
func (r *Raw) UnmarshalContent(data json.RawMessage) error {
	r.Data = clone(data)
	return nil
}

// Encode returns the type name and encoded payload of c.
// A nil c encodes to an empty type and nil data.
func Encode(c Content) (string, json.RawMessage, error) {
	if c == nil {
		return "", nil, nil
	}
	data, err := c.MarshalContent()
	if err != nil {
		return "", nil, fmt.Errorf("marshal content %q: %w", c.ContentType(), err)
	}
	return c.ContentType(), clone(data), nil
}

func clone(data json.RawMessage) json.RawMessage {
	if data == nil {
		return nil
	}
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}
