package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/config"
	deliveryHttp "clinic-booking/internal/delivery/http"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/infrastructure/otpstore"
	"clinic-booking/internal/infrastructure/postgrest"
	"clinic-booking/internal/infrastructure/session"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	Repositories *Repositories
}

// Repositories is the data access set selected by STORAGE_DRIVER.
type Repositories struct {
	Users        domainRepo.UserRepository
	Patients     domainRepo.PatientRepository
	Appointments domainRepo.AppointmentRepository
	AuditLogs    domainRepo.AuditLogRepository
}

// Load reads the configuration and prepares the shared logger. Placeholder
// values are reported as warnings and do not stop startup.
func Load() (*config.Config, *logrus.Logger, error) {
	cfg, warnings, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.App.LogLevel)
	config.LogWarnings(log, warnings)
	log.Info("Configuration loaded successfully")

	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	if err := app.connect(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Server = app.initializeServer()
	return app, nil
}

// NewDataLayer opens only what the repositories need. It backs the CLI
// commands that do not serve HTTP.
func NewDataLayer(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}
	if err := app.connectStorage(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func (app *App) connect(ctx context.Context) error {
	if err := app.connectStorage(); err != nil {
		return err
	}

	cfg := app.Config
	if cfg.OTP.Store == config.StoreRedis || cfg.App.SessionStore == config.StoreRedis {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, app.Log)
		if err != nil {
			return err
		}
		app.RedisClient = redisClient
	}
	return nil
}

func (app *App) connectStorage() error {
	cfg := app.Config
	customValidator := validator.NewValidator()

	switch cfg.App.StorageDriver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DB, app.Log)
		if err != nil {
			return err
		}
		app.DB = db
		app.Repositories = &Repositories{
			Users:        repository.NewUserRepository(db),
			Patients:     repository.NewPatientRepository(db),
			Appointments: repository.NewAppointmentRepository(db),
			AuditLogs:    repository.NewAuditLogRepository(db),
		}
	default:
		client := postgrest.NewClient(cfg.Supabase, app.Log)
		app.Repositories = &Repositories{
			Users:        repository.NewUserRESTRepository(client, app.Log, customValidator),
			Patients:     repository.NewPatientRESTRepository(client, app.Log, customValidator),
			Appointments: repository.NewAppointmentRESTRepository(client, app.Log, customValidator),
			AuditLogs:    repository.NewAuditLogRESTRepository(client, app.Log, customValidator),
		}
		app.Log.Infof("Using REST data backend at %s", cfg.Supabase.URL)
	}
	return nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg := app.Config
	log := app.Log
	repos := app.Repositories

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	var otpStore domainRepo.OTPStore = otpstore.NewMemoryStore()
	if cfg.OTP.Store == config.StoreRedis {
		otpStore = otpstore.NewRedisStore(app.RedisClient)
	}
	var sessionStore domainRepo.SessionStore = session.NewMemoryStore()
	if cfg.App.SessionStore == config.StoreRedis {
		sessionStore = session.NewRedisStore(app.RedisClient)
	}

	// Initialize services
	auditService := service.NewAuditService(log, repos.AuditLogs)
	otpService := service.NewOTPService(log, otpStore, cfg.OTP.Expiry)
	mailer := service.NewMailer(cfg, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, repos.Users, sessionStore, otpService, mailer, auditService, jwtService, cfg.OTP.Expiry)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, repos.Appointments, auditService)
	patientUsecase := usecase.NewPatientUsecase(log, repos.Patients, auditService)
	dashboardUsecase := usecase.NewDashboardUsecase(log, repos.Appointments)
	userUsecase := usecase.NewUserUsecase(log, repos.Users, sessionStore, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, repos.AuditLogs)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	adminHandler := handler.NewAdminHandler(dashboardUsecase, userUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtService, sessionStore)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		patientHandler,
		adminHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or an
// interrupt signal is received.
func (app *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	app.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
