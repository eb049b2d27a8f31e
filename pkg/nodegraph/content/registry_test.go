package content_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// number is a minimal registered content type.
type number struct {
	Value float64 `json:"value"`
}

func (n *number) ContentType() string { return "calc.number" }

func (n *number) MarshalContent() (json.RawMessage, error) { return json.Marshal(n) }

func (n *number) UnmarshalContent(data json.RawMessage) error { return json.Unmarshal(data, n) }

// broken fails to encode.
type broken struct{}

func (broken) ContentType() string { return "broken" }

func (broken) MarshalContent() (json.RawMessage, error) { return nil, errors.New("boom") }

func (broken) UnmarshalContent(json.RawMessage) error { return errors.New("boom") }

func newNumber() content.Content { return &number{} }

func TestRegisterAndLookup(t *testing.T) {
	r := content.NewRegistry()
	require.NoError(t, r.Register("calc.number", newNumber))

	f, ok := r.Lookup("calc.number")
	require.True(t, ok)
	assert.IsType(t, &number{}, f())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.True(t, r.Has("calc.number"))
	assert.Equal(t, 1, r.Len())
}

func TestRegister_Errors(t *testing.T) {
	r := content.NewRegistry()

	assert.ErrorIs(t, r.Register("", newNumber), content.ErrEmptyType)
	assert.ErrorIs(t, r.Register("x", nil), content.ErrNilFactory)

	require.NoError(t, r.Register("x", newNumber))
	assert.ErrorIs(t, r.Register("x", newNumber), content.ErrDuplicateType)
}

func TestMustRegister_Panics(t *testing.T) {
	r := content.NewRegistry()
	r.MustRegister("x", newNumber)

	assert.Panics(t, func() {
		r.MustRegister("x", newNumber)
	})
}

func TestTypesSortedAndUnregister(t *testing.T) {
	r := content.NewRegistry()
	r.MustRegister("b", newNumber)
	r.MustRegister("a", newNumber)
	r.MustRegister("c", newNumber)

	assert.Equal(t, []string{"a", "b", "c"}, r.Types())

	r.Unregister("b")
	r.Unregister("missing")
	assert.Equal(t, []string{"a", "c"}, r.Types())
}

func TestDecode_Registered(t *testing.T) {
	r := content.NewRegistry()
	r.MustRegister("calc.number", newNumber)

	c, err := r.Decode("calc.number", []byte(`{"value":4.5}`))
	require.NoError(t, err)
	require.IsType(t, &number{}, c)
	assert.Equal(t, 4.5, c.(*number).Value)
}

func TestDecode_UnknownTypeIsRaw(t *testing.T) {
	r := content.NewRegistry()

	c, err := r.Decode("plugin.thing", []byte(`{"a":[1,2]}`))
	require.NoError(t, err)

	raw, ok := c.(*content.Raw)
	require.True(t, ok)
	assert.Equal(t, "plugin.thing", raw.ContentType())

	typeName, data, err := content.Encode(raw)
	require.NoError(t, err)
	assert.Equal(t, "plugin.thing", typeName)
	assert.JSONEq(t, `{"a":[1,2]}`, string(data))
}

func TestDecode_NilRegistry(t *testing.T) {
	var r *content.Registry

	c, err := r.Decode("anything", []byte(`1`))
	require.NoError(t, err)
	assert.IsType(t, &content.Raw{}, c)
}

func TestDecode_EmptyType(t *testing.T) {
	c, err := content.NewRegistry().Decode("", nil)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecode_UnmarshalError(t *testing.T) {
	r := content.NewRegistry()
	r.MustRegister("broken", func() content.Content { return broken{} })

	_, err := r.Decode("broken", []byte(`{}`))
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	typeName, data, err := content.Encode(&number{Value: 2})
	require.NoError(t, err)
	assert.Equal(t, "calc.number", typeName)
	assert.JSONEq(t, `{"value":2}`, string(data))

	typeName, data, err = content.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, typeName)
	assert.Nil(t, data)

	_, _, err = content.Encode(broken{})
	assert.Error(t, err)
}

func TestClone_Independent(t *testing.T) {
	r := content.NewRegistry()
	r.MustRegister("calc.number", newNumber)

	original := &number{Value: 1}
	c, err := r.Clone(original)
	require.NoError(t, err)

	c.(*number).Value = 99
	assert.Equal(t, 1.0, original.Value)
}

func TestRaw_CopiesBytes(t *testing.T) {
	data := json.RawMessage(`[1]`)
	raw := &content.Raw{Type: "t"}
	require.NoError(t, raw.UnmarshalContent(data))

	data[1] = '9'
	out, err := raw.MarshalContent()
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(out))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := content.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i%26))
			_ = r.Register(name, newNumber)
			_, _ = r.Lookup(name)
			_ = r.Types()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, r.Len())
}
