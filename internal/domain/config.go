package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Calendar CalendarConfig `toml:"calendar"`
	Training TrainingConfig `toml:"training"`
	Store    StoreConfig    `toml:"store"`
	Daemon   DaemonConfig   `toml:"daemon"`
	Profile  ProfileConfig  `toml:"profile"`
	Log      LogConfig      `toml:"log"`
	Insights InsightsConfig `toml:"insights"`
}

// CalendarConfig holds week and slot settings from [calendar] section.
type CalendarConfig struct {
	Timezone             string `toml:"timezone,omitempty"`                // IANA zone the week is anchored in (default: UTC)
	DaytimeStart         int    `toml:"daytime_start,omitempty"`           // First fallback hour, inclusive
	DaytimeEnd           int    `toml:"daytime_end,omitempty"`             // Last fallback hour, inclusive
	DeepWorkThresholdMin int    `toml:"deep_work_threshold_min,omitempty"` // Tasks longer than this are deep work
}

// TrainingConfig holds profile training settings from [training] section.
type TrainingConfig struct {
	Seed            int64 `toml:"seed,omitempty"`
	MinCompleted    int   `toml:"min_completed,omitempty"`
	DeepClusters    int   `toml:"deep_clusters,omitempty"`
	ShallowClusters int   `toml:"shallow_clusters,omitempty"`
	Restarts        int   `toml:"restarts,omitempty"`
}

// InsightsConfig holds settings from [insights] section.
type InsightsConfig struct {
	MinCompleted int `toml:"min_completed,omitempty"`
}

// StoreConfig holds task store settings from [store] section.
type StoreConfig struct {
	Driver      string `toml:"driver,omitempty"`       // json (default), sqlite or postgres
	Path        string `toml:"path,omitempty"`         // File path for json and sqlite; relative to the data dir
	DSN         string `toml:"dsn,omitempty"`          // Connection string for postgres
	BusyTimeout string `toml:"busy_timeout,omitempty"` // sqlite busy timeout, e.g. "5s"
}

// ProfileConfig holds settings from [profile] section.
type ProfileConfig struct {
	Path string `toml:"path,omitempty"` // Relative to the data dir
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level   string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	Console bool   `toml:"console,omitempty"`
}

// DaemonConfig holds settings for `weekplan serve` from [daemon] section.
type DaemonConfig struct {
	ScheduleSpec string `toml:"schedule_spec,omitempty"` // cron spec for allocation runs
	RetrainSpec  string `toml:"retrain_spec,omitempty"`  // cron spec for retraining
	MinInterval  string `toml:"min_interval,omitempty"`  // Minimum gap between store-triggered runs
	WatchStore   bool   `toml:"watch_store,omitempty"`
}

// Store drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default configuration values.
const (
	DefaultTimezone             = "UTC"
	DefaultDaytimeStart         = 11
	DefaultDaytimeEnd           = 17
	DefaultDeepWorkThresholdMin = 45
	DefaultTrainingMinCompleted = 5
	DefaultDeepClusters         = 2
	DefaultShallowClusters      = 1
	DefaultRestarts             = 10
	DefaultSeed                 = 42
	DefaultInsightsMinCompleted = 3
	DefaultLogLevel             = "info"
	DefaultScheduleSpec         = "@hourly"
	DefaultRetrainSpec          = "0 3 * * *"
	DefaultMinInterval          = time.Minute
	DefaultBusyTimeout          = 5 * time.Second
)

// Directory and file names for weekplan.
const (
	AppDirName         = "weekplan"
	ConfigFileName     = "config.toml"
	TasksFileName      = "tasks.json"
	SQLiteFileName     = "tasks.db"
	ProfileFileName    = "productivity_profile.json"
	ScheduleLockName   = "schedule.lock"
	LogsDirName        = "logs"
	LogFileName        = "weekplan.log"
	DataDirEnvVariable = "WEEKPLAN_DATA_DIR"
)

// DataConfigPath returns the config path inside a data directory.
func DataConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Timezone:             DefaultTimezone,
			DaytimeStart:         DefaultDaytimeStart,
			DaytimeEnd:           DefaultDaytimeEnd,
			DeepWorkThresholdMin: DefaultDeepWorkThresholdMin,
		},
		Training: TrainingConfig{
			MinCompleted:    DefaultTrainingMinCompleted,
			DeepClusters:    DefaultDeepClusters,
			ShallowClusters: DefaultShallowClusters,
			Restarts:        DefaultRestarts,
			Seed:            DefaultSeed,
		},
		Insights: InsightsConfig{MinCompleted: DefaultInsightsMinCompleted},
		Store: StoreConfig{
			Driver:      DriverJSON,
			BusyTimeout: DefaultBusyTimeout.String(),
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Daemon: DaemonConfig{
			ScheduleSpec: DefaultScheduleSpec,
			RetrainSpec:  DefaultRetrainSpec,
			MinInterval:  DefaultMinInterval.String(),
		},
	}
}

// Location resolves the reference timezone.
func (c *Config) Location() (*time.Location, error) {
	name := c.Calendar.Timezone
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// Validate checks values the loader cannot reject by type alone.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	d := c.Calendar
	if d.DaytimeStart < 0 || d.DaytimeEnd > HoursPerDay-1 || d.DaytimeStart > d.DaytimeEnd {
		return fmt.Errorf("%w: %d-%d", ErrInvalidDaytime, d.DaytimeStart, d.DaytimeEnd)
	}
	switch c.Store.Driver {
	case "", DriverJSON, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// Policy derives the allocation policy from the calendar settings.
func (c *Config) Policy() AllocationPolicy {
	return AllocationPolicy{
		DaytimeStart:         c.Calendar.DaytimeStart,
		DaytimeEnd:           c.Calendar.DaytimeEnd,
		DeepWorkThresholdMin: c.Calendar.DeepWorkThresholdMin,
	}
}

// MinInterval parses daemon.min_interval, falling back to the default.
func (c *Config) MinInterval() time.Duration {
	return parseDurationOr(c.Daemon.MinInterval, DefaultMinInterval)
}

// BusyTimeout parses store.busy_timeout, falling back to the default.
func (c *Config) BusyTimeout() time.Duration {
	return parseDurationOr(c.Store.BusyTimeout, DefaultBusyTimeout)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// RenderConfigTemplate renders the commented config written by `weekplan init`.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
