package app

import (
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	"github.com/spf13/cast"
)

const (
	FlagMetricsAddress       = "launchpad.metrics-address"
	FlagInvariantCheckPeriod = "launchpad.invariant-check-period"

	// DefaultMetricsAddress is where the Prometheus endpoint listens when enabled
	DefaultMetricsAddress = "127.0.0.1:26661"
)

// Config holds the [launchpad] section of app.toml
type Config struct {
	// MetricsAddress is the listen address of the Prometheus endpoint; empty disables it
	MetricsAddress string `mapstructure:"metrics-address"`

	// InvariantCheckPeriod runs the launchpad invariants every N blocks; 0 disables them
	InvariantCheckPeriod uint64 `mapstructure:"invariant-check-period"`
}

// DefaultConfig returns the launchpad defaults
func DefaultConfig() Config {
	return Config{
		MetricsAddress:       "",
		InvariantCheckPeriod: 0,
	}
}

// ConfigFromAppOptions reads the launchpad section from the server options.
// A nil opts yields the defaults.
func ConfigFromAppOptions(opts servertypes.AppOptions) Config {
	cfg := DefaultConfig()
	if opts == nil {
		return cfg
	}
	cfg.MetricsAddress = cast.ToString(opts.Get(FlagMetricsAddress))
	cfg.InvariantCheckPeriod = cast.ToUint64(opts.Get(FlagInvariantCheckPeriod))
	return cfg
}

// MetricsEnabled reports whether the Prometheus endpoint is configured
func (c Config) MetricsEnabled() bool {
	return c.MetricsAddress != ""
}

// InvariantCheckDue reports whether the invariants run at height
func (c Config) InvariantCheckDue(height int64) bool {
	if c.InvariantCheckPeriod == 0 || height <= 0 {
		return false
	}
	return uint64(height)%c.InvariantCheckPeriod == 0
}

// ConfigTemplate is appended to the server's app.toml template
const ConfigTemplate = `
###############################################################################
###                         Launchpad Configuration                         ###
###############################################################################

[launchpad]

# Listen address of the Prometheus /metrics endpoint. Leave empty to disable.
metrics-address = "{{ .Launchpad.MetricsAddress }}"

# Run the launchpad invariants every N blocks. 0 disables the checks.
invariant-check-period = {{ .Launchpad.InvariantCheckPeriod }}
`
