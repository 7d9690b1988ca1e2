// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/infra/config"
	"github.com/runoshun/weekplan/internal/infra/jsonstore"
	"github.com/runoshun/weekplan/internal/infra/logging"
	"github.com/runoshun/weekplan/internal/infra/profilestore"
	"github.com/runoshun/weekplan/internal/infra/runlock"
	"github.com/runoshun/weekplan/internal/infra/sqlstore"
	"github.com/runoshun/weekplan/internal/usecase"
)

// ErrNotOpen is returned when a container is used before Open.
var ErrNotOpen = errors.New("container not opened")

// Options are the process-level settings resolved from flags.
type Options struct {
	Stderr     io.Writer // Console log destination when [log].console is set
	DataDir    string    // Data directory (default: $WEEKPLAN_DATA_DIR or XDG data home)
	ConfigFile string    // Explicit config file replacing <data>/config.toml
	LogLevel   string    // Overrides [log].level when non-empty
}

// Config holds the resolved file locations.
type Config struct {
	DataDir     string // Root of all weekplan state
	ConfigFile  string // Data config file (or the explicit --config path)
	StorePath   string // tasks.json or tasks.db; empty for postgres
	ProfilePath string // productivity_profile.json
	LockPath    string // schedule.lock
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	Random           domain.RandomSource
	Profiles         domain.ProfileProvider
	Locker           domain.RunLocker
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger

	// Pointer fields
	AppConfig *domain.Config
	closers   []io.Closer

	// Configuration
	Config Config
	opened bool
}

// New creates an unopened Container. Call Open once flags are parsed.
func New() *Container {
	return &Container{}
}

// NewWithDeps creates an opened Container with custom dependencies for testing.
// Nil ports get in-memory or no-op defaults where one exists.
func NewWithDeps(cfg Config, appConfig *domain.Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer,
	profiles domain.ProfileProvider, clock domain.Clock, random domain.RandomSource, logger domain.Logger,
) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	if random == nil {
		random = domain.NewRandomSource()
	}
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		Random:           random,
		Profiles:         profiles,
		ConfigManager:    config.NewManagerWithGlobalDir(cfg.DataDir, "").WithConfigFile(cfg.ConfigFile),
		Logger:           domain.LoggerOrNop(logger),
		AppConfig:        appConfig,
		Config:           cfg,
		opened:           true,
	}
}

// IsOpen reports whether the ports are bound.
func (c *Container) IsOpen() bool {
	return c != nil && c.opened
}

// ResolveDataDir returns dir, or the default data directory when dir is empty.
// Precedence: argument, $WEEKPLAN_DATA_DIR, $XDG_DATA_HOME/weekplan,
// ~/.local/share/weekplan.
func ResolveDataDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	if env := os.Getenv(domain.DataDirEnvVariable); env != "" {
		return filepath.Abs(env)
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, domain.AppDirName), nil
}

// Open loads the configuration and binds every port.
func (c *Container) Open(opts Options) error {
	if c.opened {
		return nil
	}

	dataDir, err := ResolveDataDir(opts.DataDir)
	if err != nil {
		return err
	}

	loader := config.NewLoader(dataDir).WithConfigFile(opts.ConfigFile)
	appConfig, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		appConfig.Log.Level = opts.LogLevel
	}

	paths := resolvePaths(dataDir, opts.ConfigFile, appConfig)

	var console io.Writer
	if appConfig.Log.Console {
		console = opts.Stderr
		if console == nil {
			console = os.Stderr
		}
	}
	logger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level), console)
	c.closers = append(c.closers, logger)

	tasks, storeInit, closer, err := openTaskStore(appConfig, paths)
	if err != nil {
		return err
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}

	c.Tasks = tasks
	c.StoreInitializer = storeInit
	c.Clock = domain.RealClock{}
	c.Random = domain.NewRandomSource()
	c.Profiles = profilestore.NewService(profilestore.NewFileStore(paths.ProfilePath), logger)
	c.Locker = runlock.New(paths.LockPath)
	c.ConfigLoader = loader
	c.ConfigManager = config.NewManager(dataDir).WithConfigFile(opts.ConfigFile)
	c.Logger = logger
	c.AppConfig = appConfig
	c.Config = paths
	c.opened = true

	logger.Debug("app", "container opened",
		"data_dir", dataDir,
		"driver", appConfig.Store.Driver,
		"timezone", appConfig.Calendar.Timezone,
	)
	return nil
}

// Close releases open resources.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func resolvePaths(dataDir, configFile string, cfg *domain.Config) Config {
	paths := Config{
		DataDir:     dataDir,
		ConfigFile:  domain.DataConfigPath(dataDir),
		ProfilePath: inDataDir(dataDir, cfg.Profile.Path, domain.ProfileFileName),
		LockPath:    filepath.Join(dataDir, domain.ScheduleLockName),
	}
	if configFile != "" {
		paths.ConfigFile = configFile
	}
	switch cfg.Store.Driver {
	case domain.DriverSQLite:
		paths.StorePath = inDataDir(dataDir, cfg.Store.Path, domain.SQLiteFileName)
	case domain.DriverPostgres:
	default:
		paths.StorePath = inDataDir(dataDir, cfg.Store.Path, domain.TasksFileName)
	}
	return paths
}

// inDataDir resolves a configured path relative to dataDir.
func inDataDir(dataDir, configured, fallback string) string {
	if configured == "" {
		return filepath.Join(dataDir, fallback)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(dataDir, configured)
}

func openTaskStore(cfg *domain.Config, paths Config) (domain.TaskRepository, domain.StoreInitializer, io.Closer, error) {
	switch cfg.Store.Driver {
	case domain.DriverSQLite, domain.DriverPostgres:
		store, err := sqlstore.Open(sqlstore.Options{
			Driver:      cfg.Store.Driver,
			Path:        paths.StorePath,
			DSN:         cfg.Store.DSN,
			BusyTimeout: cfg.BusyTimeout(),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, store, nil
	case "", domain.DriverJSON:
		store := jsonstore.New(paths.StorePath)
		return store, store, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownDriver, cfg.Store.Driver)
	}
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.AppConfig)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Clock, c.AppConfig)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Clock, c.AppConfig)
}

// ToggleMyDayUseCase returns a new ToggleMyDay use case.
func (c *Container) ToggleMyDayUseCase() *usecase.ToggleMyDay {
	return usecase.NewToggleMyDay(c.Tasks, c.Clock, c.AppConfig, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Logger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Clock, c.AppConfig, c.Logger)
}

// AllocateScheduleUseCase returns a new AllocateSchedule use case.
func (c *Container) AllocateScheduleUseCase() *usecase.AllocateSchedule {
	return usecase.NewAllocateSchedule(c.Tasks, c.Profiles, c.Locker, c.Random, c.Clock, c.AppConfig, c.Logger)
}

// RetrainProfileUseCase returns a new RetrainProfile use case.
func (c *Container) RetrainProfileUseCase() *usecase.RetrainProfile {
	return usecase.NewRetrainProfile(c.Tasks, c.Profiles, c.Clock, c.AppConfig, c.Logger)
}

// GetInsightsUseCase returns a new GetInsights use case.
func (c *Container) GetInsightsUseCase() *usecase.GetInsights {
	return usecase.NewGetInsights(c.Tasks, c.AppConfig, c.Logger)
}

// ShowProfileUseCase returns a new ShowProfile use case.
func (c *Container) ShowProfileUseCase() *usecase.ShowProfile {
	return usecase.NewShowProfile(c.Profiles)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.AppConfig)
}
