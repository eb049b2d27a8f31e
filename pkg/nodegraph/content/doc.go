// Package content defines the opaque per-node payload of a scene and a
// registry that maps content type names to constructors.
//
// The scene never knows concrete node kinds. A node carries a Content value;
// the serializer asks it for its type name and encoded form, and on load
// looks the type name up in a Registry to rebuild it.
//
// # Registering Types
//
//	type Number struct{ Value float64 }
//
//	func (n *Number) ContentType() string { return "calc.number" }
//	func (n *Number) MarshalContent() (json.RawMessage, error) { return json.Marshal(n) }
//	func (n *Number) UnmarshalContent(data json.RawMessage) error { return json.Unmarshal(data, n) }
//
//	types := content.NewRegistry()
//	types.MustRegister("calc.number", func() content.Content { return &Number{} })
//
// # Unknown Types
//
// Content whose type is not registered decodes to *Raw, which keeps the type
// name and bytes unchanged so a load/save cycle does not lose it.
//
// # Thread Safety
//
// Registry methods are safe for concurrent use, so one registry can be shared
// by every scene in a process. Content values themselves are owned by a
// single scene.
package content
