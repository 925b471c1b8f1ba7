package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradefair/config"
	"tradefair/internal/adapters/auth"
	"tradefair/internal/adapters/email"
	"tradefair/internal/adapters/sessionize"
	httpapi "tradefair/internal/delivery/http"
	"tradefair/internal/delivery/http/controllers"
	"tradefair/internal/delivery/http/middleware"
	"tradefair/internal/repository/postgres"
	"tradefair/internal/services"
)

// Application owns the server's dependencies from startup to shutdown.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger

	db           *sql.DB
	housekeeping *services.HousekeepingService
	server       *http.Server
}

// New connects to the database, applies migrations and wires every service and route.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	db, err := postgres.Open(ctx, cfg.DBUrl, cfg.DBConnectAttempts, logger)
	if err != nil {
		return nil, err
	}
	app.db = db
	if err := postgres.ApplyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database migrations applied")

	handler, err := app.buildHandler()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return app, nil
}

func (app *Application) buildHandler() (http.Handler, error) {
	cfg, logger, timeout := app.cfg, app.logger, app.cfg.ContextTimeout

	identityRepo := postgres.NewIdentityRepository(app.db)
	profileRepo := postgres.NewProfileRepository(app.db)
	sessionRepo := postgres.NewAuthSessionRepository(app.db)
	resetRepo := postgres.NewPasswordResetRepository(app.db)
	speakerRepo := postgres.NewSpeakerRepository(app.db)
	roomRepo := postgres.NewRoomRepository(app.db)
	timeSlotRepo := postgres.NewTimeSlotRepository(app.db)
	conferenceRepo := postgres.NewConferenceRepository(app.db)
	registrationRepo := postgres.NewRegistrationRepository(app.db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("init email templates: %w", err)
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	authService := services.NewAuthService(services.AuthDeps{
		Identities:     identityRepo,
		Profiles:       profileRepo,
		Sessions:       sessionRepo,
		PasswordResets: resetRepo,
		Hasher:         auth.NewBcryptHasher(auth.DefaultCost),
		Issuer:         auth.NewJWTIssuer(cfg.JWTSecret),
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Email:          emailService,
		Logger:         logger,
	}, cfg.TokenExpiry, timeout)
	availabilityService := services.NewAvailabilityService(conferenceRepo, timeSlotRepo, timeout)

	app.housekeeping = services.NewHousekeepingService(sessionRepo, resetRepo, logger, cfg.HousekeepingPeriod, timeout)

	ctrls := httpapi.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Profiles:     controllers.NewProfileController(logger, services.NewProfileService(profileRepo, timeout)),
		Speakers:     controllers.NewSpeakerController(logger, services.NewSpeakerService(speakerRepo, conferenceRepo, timeout)),
		Venue:        controllers.NewVenueController(logger, services.NewVenueService(roomRepo, timeSlotRepo, timeout), availabilityService),
		Conferences:  controllers.NewConferenceController(logger, services.NewConferenceService(conferenceRepo, registrationRepo, availabilityService, timeout)),
		Registration: controllers.NewRegistrationController(logger, services.NewRegistrationService(registrationRepo, conferenceRepo, logger, timeout)),
		Statistics:   controllers.NewStatisticsController(logger, services.NewStatisticsService(conferenceRepo, registrationRepo, roomRepo, timeSlotRepo, timeout)),
		Agenda: controllers.NewAgendaController(logger, services.NewAgendaImportService(
			sessionize.NewHTTPFetcher(&http.Client{Timeout: cfg.AgendaImportTimeout}, cfg.SessionizeBaseURL),
			speakerRepo, roomRepo, timeSlotRepo, conferenceRepo, logger, cfg.AgendaImportTimeout,
		)),
	}
	authLimit := middleware.AuthLimit
	authLimit.TrustProxyHeaders = cfg.TrustProxyHeaders
	return httpapi.NewRouter(ctrls, authService, httpapi.RouterConfig{
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthLimit:      authLimit,
	}, logger), nil
}

// Run serves HTTP until the server fails or SIGINT/SIGTERM arrives, then shuts down.
func (app *Application) Run() error {
	app.housekeeping.Start()
	app.logger.Info("server starting", "port", app.cfg.Port, "env", app.cfg.Environment)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.housekeeping.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig.String())
		return app.Shutdown()
	}
}

// Shutdown drains in-flight requests within the grace period, then stops housekeeping and closes the pool.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	var errs []error
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful shutdown failed, closing server", "err", err)
		errs = append(errs, err, app.server.Close())
	}
	app.housekeeping.Stop()
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	app.logger.Info("server stopped")
	return errors.Join(errs...)
}
