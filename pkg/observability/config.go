package observability

import "log/slog"

// AppMode identifies the application execution mode. Unlike the teacher's
// MCP/server split, meterledger only ever runs as a CLI, optionally with a
// Prometheus scrape endpoint exposed alongside it.
type AppMode string

const (
	// ModeCLI is the ordinary one-shot command execution mode.
	ModeCLI AppMode = "cli"
	// ModeServe is active while the Prometheus HTTP endpoint is being served.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "meterledger"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// PrometheusAddr is a "host:port" carried over from the configuration
	// file. Init does not read it; serve-metrics listens on its own --addr
	// flag. The meter provider is built and usable in-process either way.
	PrometheusAddr string

	// DebugTrace forces 100% trace sampling when true.
	DebugTrace bool

	// SampleRatio is the trace sampling ratio (0.0 to 1.0) when DebugTrace is
	// false. Zero uses the OTel SDK default (parent-based with always-on root).
	SampleRatio float64

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// TraceVerbose is not read by Init or by any command; the same
	// structural command spans are recorded whether it is set or not.
	TraceVerbose bool

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
