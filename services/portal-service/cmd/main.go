package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/handler"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/notifier"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/scheduler"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/auth"
	"github.com/raushkum4590/job-portal-sub000/shared/database"
	"github.com/raushkum4590/job-portal-sub000/shared/logger"
	"github.com/raushkum4590/job-portal-sub000/shared/mailer"
	"github.com/raushkum4590/job-portal-sub000/shared/provider"
)

const serviceName = "portal-service"

func main() {
	cfg, err := config.NewPortalServiceConfig()
	if err != nil {
		logger.New(serviceName, "info", true).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(serviceName, cfg.LogLevel, !cfg.Production())

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.Error().Err(err).Msg("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connector := database.NewMongoConnector(cfg.Mongo)
	db, err := connector.Database(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := connector.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	userRepo := repository.NewUserMongoRepository(ctx, log, db)
	jobRepo := repository.NewJobMongoRepository(ctx, log, db)

	var sender mailer.Sender = mailer.LogSender{Logger: log}
	if mailer.Configured() {
		sender = mailer.NewMailer(log)
	} else {
		log.Warn().Msg("SMTP is not configured, emails will only be logged")
	}

	bus := newEventBus(ctx, cfg, log, notifier.New(log, sender, cfg.AppURL))
	bus.Start(ctx)

	google := provider.NewGoogleOAuthProvider(cfg.Google)
	if !google.Enabled() {
		log.Warn().Msg("Google sign-in is not configured")
	}

	sessionAuth := auth.NewJWTAuthenticator(cfg.Token.SessionTokenSecret, cfg.Token.Issuer, cfg.Token.Audience)
	resetAuth := auth.NewJWTAuthenticator(cfg.Token.PasswordResetTokenSecret, cfg.Token.Issuer, cfg.Token.Audience+"/password-reset")

	jobs := usecase.NewJobUsecase(jobRepo, userRepo, log)

	h := handler.NewHandler(handler.Dependencies{
		Auth:          usecase.NewAuthUsecase(userRepo, bus, google, sessionAuth, cfg, log),
		PasswordReset: usecase.NewPasswordResetUsecase(userRepo, resetAuth, sender, cfg, log),
		Profiles:      usecase.NewProfileUsecase(userRepo, log),
		Jobs:          jobs,
		Applications:  usecase.NewApplicationUsecase(jobRepo, userRepo, bus, log),
		Google:        google,
		Config:        cfg,
		Logger:        log,
	})

	sweeper := scheduler.New(jobs, cfg.ExpirySchedule, log)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start expiry sweep")
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("portal service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve HTTP")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}

	sweeper.Stop()
	bus.Close()
	cancel()

	log.Info().Msg("stopped")
}

// newEventBus delivers events straight to the notifier, or through a Redis
// stream when REDIS_URL is set. Replicas share one consumer group, so each
// event is sent by exactly one of them.
func newEventBus(ctx context.Context, cfg *config.PortalServiceConfig, log *zerolog.Logger, n *notifier.Notifier) *event.Bus {
	if cfg.RedisURL == "" {
		return event.NewBus(log, n, cfg.Events)
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	subscriber := event.NewRedisSubscriber(log, rdb, cfg.Stream, n)
	go func() {
		if err := subscriber.Run(ctx); err != nil {
			log.Error().Err(err).Msg("notification subscriber stopped")
		}
	}()

	return event.NewBus(log, event.NewRedisForwarder(rdb, cfg.Stream), cfg.Events)
}
