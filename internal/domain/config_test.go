package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.Equal(t, 11, cfg.Calendar.DaytimeStart)
	assert.Equal(t, 17, cfg.Calendar.DaytimeEnd)
	assert.Equal(t, 45, cfg.Calendar.DeepWorkThresholdMin)
	assert.Equal(t, 5, cfg.Training.MinCompleted)
	assert.Equal(t, 2, cfg.Training.DeepClusters)
	assert.Equal(t, 1, cfg.Training.ShallowClusters)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 3, cfg.Insights.MinCompleted)
	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Equal(t, "@hourly", cfg.Daemon.ScheduleSpec)
	assert.Equal(t, time.Minute, cfg.MinInterval())
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout())
	assert.Equal(t, DefaultAllocationPolicy(), cfg.Policy())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Location(t *testing.T) {
	cfg := NewDefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Calendar.Timezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Calendar.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		wantErr error
		name    string
	}{
		{name: "inverted daytime", mutate: func(c *Config) { c.Calendar.DaytimeStart = 18 }, wantErr: ErrInvalidDaytime},
		{name: "daytime past midnight", mutate: func(c *Config) { c.Calendar.DaytimeEnd = 24 }, wantErr: ErrInvalidDaytime},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: ErrUnknownDriver},
		{name: "sqlite ok", mutate: func(c *Config) { c.Store.Driver = DriverSQLite }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_DurationsFallBack(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Daemon.MinInterval = "soon"
	cfg.Store.BusyTimeout = "-1s"

	assert.Equal(t, DefaultMinInterval, cfg.MinInterval())
	assert.Equal(t, DefaultBusyTimeout, cfg.BusyTimeout())

	cfg.Daemon.MinInterval = "90s"
	assert.Equal(t, 90*time.Second, cfg.MinInterval())
}

func TestRenderConfigTemplate(t *testing.T) {
	out := RenderConfigTemplate(NewDefaultConfig())

	assert.Contains(t, out, "[calendar]")
	assert.Contains(t, out, `timezone = "UTC"`)
	assert.Contains(t, out, "# daytime_start = 11")
	assert.Contains(t, out, `driver = "json"`)
	assert.Contains(t, out, `# retrain_spec = "0 3 * * *"`)
	assert.Contains(t, out, `level = "info"`)
}
