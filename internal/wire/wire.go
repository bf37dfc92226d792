// Package wire provides dependency injection for hubledger.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/hubledger/internal/adapters/cli"
	"github.com/example/hubledger/internal/adapters/sqlite"
	"github.com/example/hubledger/internal/app"
	"github.com/example/hubledger/internal/config"
	"github.com/example/hubledger/internal/core/credential"
	"github.com/example/hubledger/internal/ctxutil"
	"github.com/example/hubledger/internal/db"
	"github.com/example/hubledger/internal/logging"
	"github.com/example/hubledger/internal/ports/primary"
)

var (
	configPath = config.DefaultFile

	cfg      *config.Config
	logger   *zap.Logger
	database *sql.DB
	hasher   credential.Hasher
	startup  *db.BootstrapReport

	reconcileService  primary.ReconcileService
	hubMetricsService primary.HubMetricsService
	capabilityService primary.CapabilityService
	clientService     primary.ClientService
	peopleService     primary.PeopleService
	authService       primary.AuthService
	healthService     primary.HealthService

	once sync.Once
)

// SetConfigPath overrides the config file location. It only has an effect
// before the first service is requested.
func SetConfigPath(path string) {
	configPath = path
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(logging.Config{Level: cfg.LogLevel, Environment: cfg.Environment})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	database, err = db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	hasher = credential.NewHasher(cfg.BcryptCost)

	startup, err = db.Bootstrap(context.Background(), database, hasher, logger, nil)
	if err != nil {
		logger.Fatal("failed to prepare database", zap.Error(err))
	}
	logger.Debug("database ready", zap.String("path", cfg.DBPath))

	// Repository adapters (secondary ports)
	hubRepo := sqlite.NewHubRepository(database)
	metricsRepo := sqlite.NewHubMetricsRepository(database)
	capabilityRepo := sqlite.NewCapabilityRepository(database)
	clientRepo := sqlite.NewClientRepository(database)
	peopleRepo := sqlite.NewPeopleMetricRepository(database)
	userRepo := sqlite.NewUserRepository(database)
	healthRepo := sqlite.NewHealthRepository(database)

	// Services (primary ports)
	reconcileService = app.NewReconcileService(hubRepo, metricsRepo, capabilityRepo, clientRepo, peopleRepo)
	hubMetricsService = app.NewHubMetricsService(hubRepo, metricsRepo, reconcileService, nil)
	capabilityService = app.NewCapabilityService(hubRepo, capabilityRepo, reconcileService, nil)
	clientService = app.NewClientService(hubRepo, clientRepo, reconcileService, nil)
	peopleService = app.NewPeopleService(hubRepo, peopleRepo, metricsRepo, reconcileService, nil)
	authService = app.NewAuthService(userRepo, hubRepo, hasher, logger)
	healthService = app.NewHealthService(healthRepo, nil)
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Database returns the shared store handle.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// Hasher returns the configured password hasher.
func Hasher() credential.Hasher {
	once.Do(initServices)
	return hasher
}

// StartupReport returns what startup did to the store.
func StartupReport() *db.BootstrapReport {
	once.Do(initServices)
	return startup
}

// HubMetricsService returns the singleton HubMetricsService instance.
func HubMetricsService() primary.HubMetricsService {
	once.Do(initServices)
	return hubMetricsService
}

// ClientService returns the singleton ClientService instance.
func ClientService() primary.ClientService {
	once.Do(initServices)
	return clientService
}

// Login authenticates the given credentials, falling back to the configured
// ones for blank values, and returns a context carrying the session.
func Login(ctx context.Context, username, password string) (context.Context, error) {
	once.Do(initServices)
	if username == "" {
		username = cfg.Username
	}
	if password == "" {
		password = cfg.Password
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("credentials required: set HUBLEDGER_USER and HUBLEDGER_PASSWORD")
	}

	session, err := authService.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	logger.Debug("session opened",
		zap.String("session", session.ID.String()),
		zap.String("user", session.Username),
	)
	return ctxutil.WithSession(ctx, session), nil
}

// Close flushes the logger and closes the store. Safe to call when nothing
// was initialized.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		database.Close()
	}
}

// MetricsAdapter returns a new MetricsAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MetricsAdapter() *cliadapter.MetricsAdapter {
	return MetricsAdapterWithOutput(os.Stdout)
}

// MetricsAdapterWithOutput returns a new MetricsAdapter writing to the given output.
func MetricsAdapterWithOutput(out io.Writer) *cliadapter.MetricsAdapter {
	once.Do(initServices)
	return cliadapter.NewMetricsAdapter(hubMetricsService, reconcileService, out)
}

// CapabilityAdapter returns a new CapabilityAdapter writing to stdout.
func CapabilityAdapter() *cliadapter.CapabilityAdapter {
	return CapabilityAdapterWithOutput(os.Stdout)
}

// CapabilityAdapterWithOutput returns a new CapabilityAdapter writing to the given output.
func CapabilityAdapterWithOutput(out io.Writer) *cliadapter.CapabilityAdapter {
	once.Do(initServices)
	return cliadapter.NewCapabilityAdapter(capabilityService, out)
}

// ClientAdapter returns a new ClientAdapter writing to stdout.
func ClientAdapter() *cliadapter.ClientAdapter {
	return ClientAdapterWithOutput(os.Stdout)
}

// ClientAdapterWithOutput returns a new ClientAdapter writing to the given output.
func ClientAdapterWithOutput(out io.Writer) *cliadapter.ClientAdapter {
	once.Do(initServices)
	return cliadapter.NewClientAdapter(clientService, out)
}

// PeopleAdapter returns a new PeopleAdapter writing to stdout.
func PeopleAdapter() *cliadapter.PeopleAdapter {
	return PeopleAdapterWithOutput(os.Stdout)
}

// PeopleAdapterWithOutput returns a new PeopleAdapter writing to the given output.
func PeopleAdapterWithOutput(out io.Writer) *cliadapter.PeopleAdapter {
	once.Do(initServices)
	return cliadapter.NewPeopleAdapter(peopleService, out)
}

// UserAdapter returns a new UserAdapter writing to stdout.
func UserAdapter() *cliadapter.UserAdapter {
	return UserAdapterWithOutput(os.Stdout)
}

// UserAdapterWithOutput returns a new UserAdapter writing to the given output.
func UserAdapterWithOutput(out io.Writer) *cliadapter.UserAdapter {
	once.Do(initServices)
	return cliadapter.NewUserAdapter(authService, out)
}

// HealthAdapter returns a new HealthAdapter writing to stdout.
func HealthAdapter() *cliadapter.HealthAdapter {
	return HealthAdapterWithOutput(os.Stdout)
}

// HealthAdapterWithOutput returns a new HealthAdapter writing to the given output.
func HealthAdapterWithOutput(out io.Writer) *cliadapter.HealthAdapter {
	once.Do(initServices)
	return cliadapter.NewHealthAdapter(healthService, out)
}
