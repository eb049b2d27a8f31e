/*
Package config loads scene defaults from YAML or JSON.

# Overview

Settings carries the values an application usually wants to keep outside
code: the undo limit, what happens when a single-capacity socket is already
occupied, the default socket capacities and which edge validators to enable.

	s, err := config.FromFile("scene.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	scene := nodegraph.NewScene(nodegraph.WithSettings(s))

A settings file looks like:

	history_limit: 64
	connect_policy: reject
	input_max_connections: 1
	output_max_connections: -1
	forbid_self_loops: true
	match_socket_types: false

Missing keys take their value from Default. Unknown keys and out-of-range
values are reported as ErrInvalidSettings.

# Type Coercion

Config wraps the decoded map and returns defaults on missing keys or type
mismatches. Integers accept int, int64 and whole float64 values, so the
same file can be written as YAML or JSON.
*/
package config
