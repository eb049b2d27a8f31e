package nodegraph

import (
	"log/slog"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/config"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/observability"
)

// ConnectPolicy decides what AddEdge does when an endpoint with a limit of
// exactly one connection is already occupied.
type ConnectPolicy int

const (
	// ReplaceOnConnect removes the occupying edge and connects the new one,
	// both in the same history entry.
	ReplaceOnConnect ConnectPolicy = iota

	// RejectOnConnect fails with a *CapacityExceededError.
	RejectOnConnect
)

// String returns the policy name used in settings files.
func (p ConnectPolicy) String() string {
	if p == RejectOnConnect {
		return config.PolicyReject
	}
	return config.PolicyReplace
}

// sceneConfig holds the configuration of a scene.
type sceneConfig struct {
	id           ID
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	registry     *content.Registry
	historyLimit int
	policy       ConnectPolicy
	inputCap     int
	outputCap    int
	validators   []EdgeValidator
}

func defaultSceneConfig() sceneConfig {
	d := config.Default()
	return sceneConfig{
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
		historyLimit: d.HistoryLimit,
		policy:       ReplaceOnConnect,
		inputCap:     d.InputMaxConnections,
		outputCap:    d.OutputMaxConnections,
	}
}

// Option configures a Scene.
type Option func(*sceneConfig)

// WithID sets the scene id. Default: a fresh uuid.
func WithID(id ID) Option {
	return func(c *sceneConfig) {
		c.id = id
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *sceneConfig) {
		c.logger = logger
	}
}

// WithMetrics enables metrics recording.
//
// Example:
//
//	scene := nodegraph.NewScene(nodegraph.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *sceneConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables spans around SaveScene and LoadScene.
func WithTracing(sm observability.SpanManager) Option {
	return func(c *sceneConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithContentRegistry sets the registry used to decode node content.
// Without one, all content loads as *content.Raw.
func WithContentRegistry(r *content.Registry) Option {
	return func(c *sceneConfig) {
		c.registry = r
	}
}

// WithHistoryLimit caps the undo history. 0 means unbounded.
// Default: 32. Negative values are ignored.
func WithHistoryLimit(n int) Option {
	return func(c *sceneConfig) {
		if n >= 0 {
			c.historyLimit = n
		}
	}
}

// WithConnectPolicy sets the policy for occupied single-connection sockets.
// Default: ReplaceOnConnect.
func WithConnectPolicy(p ConnectPolicy) Option {
	return func(c *sceneConfig) {
		c.policy = p
	}
}

// WithDefaultCapacity sets the connection limit for sockets of kind whose
// SocketDef leaves MaxConnections at 0. Defaults: inputs 1, outputs Unlimited.
func WithDefaultCapacity(kind SocketKind, n int) Option {
	return func(c *sceneConfig) {
		n = normalizeCapacity(n, 1)
		if kind == Output {
			c.outputCap = n
		} else {
			c.inputCap = n
		}
	}
}

// WithEdgeValidator adds a validator run on every new edge, in the order
// added.
func WithEdgeValidator(v EdgeValidator) Option {
	return func(c *sceneConfig) {
		if v != nil {
			c.validators = append(c.validators, v)
		}
	}
}

// WithSettings applies loaded settings. Options after it override them.
func WithSettings(s config.Settings) Option {
	return func(c *sceneConfig) {
		WithHistoryLimit(s.HistoryLimit)(c)
		if s.ConnectPolicy == config.PolicyReject {
			c.policy = RejectOnConnect
		} else {
			c.policy = ReplaceOnConnect
		}
		WithDefaultCapacity(Input, s.InputMaxConnections)(c)
		WithDefaultCapacity(Output, s.OutputMaxConnections)(c)
		if s.ForbidSelfLoops {
			WithEdgeValidator(ForbidSelfLoops)(c)
		}
		if s.MatchSocketTypes {
			WithEdgeValidator(MatchSocketTypes)(c)
		}
	}
}
