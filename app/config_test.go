package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mapOptions map[string]interface{}

func (m mapOptions) Get(key string) interface{} { return m[key] }

func TestConfigFromAppOptions(t *testing.T) {
	cfg := ConfigFromAppOptions(nil)
	require.Equal(t, DefaultConfig(), cfg)
	require.False(t, cfg.MetricsEnabled())

	cfg = ConfigFromAppOptions(mapOptions{
		FlagMetricsAddress:       DefaultMetricsAddress,
		FlagInvariantCheckPeriod: "10",
	})
	require.True(t, cfg.MetricsEnabled())
	require.Equal(t, DefaultMetricsAddress, cfg.MetricsAddress)
	require.Equal(t, uint64(10), cfg.InvariantCheckPeriod)
}

func TestInvariantCheckDue(t *testing.T) {
	tests := []struct {
		name   string
		period uint64
		height int64
		want   bool
	}{
		{"disabled", 0, 10, false},
		{"every block", 1, 7, true},
		{"on period", 5, 10, true},
		{"off period", 5, 11, false},
		{"genesis height", 5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{InvariantCheckPeriod: tt.period}
			require.Equal(t, tt.want, cfg.InvariantCheckDue(tt.height))
		})
	}
}
