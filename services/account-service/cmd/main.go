package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/account-service/internal/config"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/handler"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/notification"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/repository"
	"github.com/vasapolrittideah/account-api/services/account-service/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/auth"
	"github.com/vasapolrittideah/account-api/shared/discovery"
	"github.com/vasapolrittideah/account-api/shared/mailer"
	"github.com/vasapolrittideah/account-api/shared/middleware"
	"github.com/vasapolrittideah/account-api/shared/utilities"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "account-service").Logger()

	cfg, err := config.NewAccountServiceConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load account service configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	} else {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		logger = logger.Level(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := repository.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	accountRepo := repository.NewAccountMongoRepository(ctx, &logger, mongoClient.Database(cfg.Mongo.Database))

	validate, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	jwtAuth, err := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Audience, cfg.Token.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create JWT authenticator")
	}

	var notifier usecase.WelcomeNotifier
	if cfg.Mailer.Enabled() {
		m, err := mailer.NewMailer(mailer.Config{
			Host:     cfg.Mailer.Host,
			Port:     cfg.Mailer.Port,
			Username: cfg.Mailer.Username,
			Password: cfg.Mailer.Password,
			From:     cfg.Mailer.From,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to validate mailer configuration")
		}
		notifier = notification.NewWelcomeMailer(m, cfg.ServiceName)
	}

	accountUsecase, err := usecase.NewAccountUsecase(
		accountRepo,
		usecase.NewCredentialValidator(validate),
		notifier,
		&logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create account usecase")
	}
	tokenUsecase := usecase.NewTokenUsecase(jwtAuth, cfg.Token.ExpiresIn, &logger)
	authUsecase := usecase.NewAuthUsecase(accountUsecase, tokenUsecase, &logger)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.NewRequestLogger(&logger),
		chimiddleware.Recoverer,
		chimiddleware.Timeout(cfg.RequestTimeout),
	)
	utilities.RegisterHealthRoute(router)
	handler.RegisterAccountRoutes(router, accountUsecase, authUsecase, tokenUsecase, validate, &logger)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("account service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if cfg.Consul.Enabled() {
		deregister := registerWithConsul(cfg, &logger)
		defer deregister()
	}

	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("http server stopped unexpectedly")
	case <-ctx.Done():
		logger.Info().Msg("shutting down account service")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server")
	}
}

// registerWithConsul registers the service and returns the matching deregistration.
// Failures are logged; the service keeps running without discovery.
func registerWithConsul(cfg *config.AccountServiceConfig, logger *zerolog.Logger) func() {
	registry, err := discovery.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create consul registry")
		return func() {}
	}

	reg := discovery.Registration{
		ID:            cfg.Consul.ServiceID,
		Name:          cfg.ServiceName,
		Host:          cfg.Consul.AdvertiseHost,
		Port:          cfg.Port,
		HealthPath:    utilities.HealthPath,
		CheckInterval: cfg.Consul.CheckInterval,
	}
	if err := registry.Register(reg); err != nil {
		logger.Error().Err(err).Msg("failed to register with consul")
		return func() {}
	}

	return func() {
		if err := registry.Deregister(reg.InstanceID()); err != nil {
			logger.Error().Err(err).Msg("failed to deregister from consul")
		}
	}
}
