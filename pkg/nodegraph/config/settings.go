package config

import (
	"errors"
	"fmt"
	"sort"
)

// Connect policies.
const (
	// PolicyReplace removes the existing edge on a single-capacity socket
	// before connecting the new one.
	PolicyReplace = "replace"

	// PolicyReject refuses to connect to an occupied single-capacity socket.
	PolicyReject = "reject"
)

// Unlimited marks a socket kind with no connection limit.
const Unlimited = -1

// Keys recognized in settings files.
const (
	KeyHistoryLimit         = "history_limit"
	KeyConnectPolicy        = "connect_policy"
	KeyInputMaxConnections  = "input_max_connections"
	KeyOutputMaxConnections = "output_max_connections"
	KeyForbidSelfLoops      = "forbid_self_loops"
	KeyMatchSocketTypes     = "match_socket_types"
)

var knownKeys = map[string]bool{
	KeyHistoryLimit:         true,
	KeyConnectPolicy:        true,
	KeyInputMaxConnections:  true,
	KeyOutputMaxConnections: true,
	KeyForbidSelfLoops:      true,
	KeyMatchSocketTypes:     true,
}

// ErrInvalidSettings is returned when settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the scene defaults an application can load from a file.
type Settings struct {
	// HistoryLimit caps the undo stack. 0 means unbounded.
	HistoryLimit int

	// ConnectPolicy is PolicyReplace or PolicyReject.
	ConnectPolicy string

	// InputMaxConnections and OutputMaxConnections are the default socket
	// capacities per kind. Unlimited means no cap.
	InputMaxConnections  int
	OutputMaxConnections int

	ForbidSelfLoops  bool
	MatchSocketTypes bool
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		HistoryLimit:         32,
		ConnectPolicy:        PolicyReplace,
		InputMaxConnections:  1,
		OutputMaxConnections: Unlimited,
	}
}

// FromMap reads settings from cfg, starting from Default for missing keys.
// Unrecognized keys are an error so typos do not pass silently.
func FromMap(cfg Config) (Settings, error) {
	var unknown []string
	for _, k := range cfg.Keys() {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Settings{}, fmt.Errorf("%w: unknown keys %v", ErrInvalidSettings, unknown)
	}

	d := Default()
	s := Settings{
		HistoryLimit:         cfg.Int(KeyHistoryLimit, d.HistoryLimit),
		ConnectPolicy:        cfg.String(KeyConnectPolicy, d.ConnectPolicy),
		InputMaxConnections:  cfg.Int(KeyInputMaxConnections, d.InputMaxConnections),
		OutputMaxConnections: cfg.Int(KeyOutputMaxConnections, d.OutputMaxConnections),
		ForbidSelfLoops:      cfg.Bool(KeyForbidSelfLoops, d.ForbidSelfLoops),
		MatchSocketTypes:     cfg.Bool(KeyMatchSocketTypes, d.MatchSocketTypes),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every field holds a usable value.
func (s Settings) Validate() error {
	if s.HistoryLimit < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidSettings, KeyHistoryLimit, s.HistoryLimit)
	}
	switch s.ConnectPolicy {
	case PolicyReplace, PolicyReject:
	default:
		return fmt.Errorf("%w: %s must be %q or %q, got %q",
			ErrInvalidSettings, KeyConnectPolicy, PolicyReplace, PolicyReject, s.ConnectPolicy)
	}
	if err := validCapacity(KeyInputMaxConnections, s.InputMaxConnections); err != nil {
		return err
	}
	return validCapacity(KeyOutputMaxConnections, s.OutputMaxConnections)
}

func validCapacity(key string, n int) error {
	if n == Unlimited || n >= 1 {
		return nil
	}
	return fmt.Errorf("%w: %s must be >= 1 or %d, got %d", ErrInvalidSettings, key, Unlimited, n)
}
