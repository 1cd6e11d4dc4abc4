package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"livemusicnotes/internal/cache"
	"livemusicnotes/internal/config"
	"livemusicnotes/internal/database"
	"livemusicnotes/internal/handler"
	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/queue"
	"livemusicnotes/internal/redis"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/service"
	"livemusicnotes/internal/storage"
	"livemusicnotes/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	logging.SetGlobal(logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}))
	logger := logging.Component("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Photo storage
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	logger.Info().Str("backend", cfg.StorageBackend).Msg("photo storage ready")

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	showRepo := repository.NewShowRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// 5. Redis: venue cache and photo cleanup stream. Both are optional.
	var (
		venueCache cache.VenueCache
		publisher  queue.Publisher
		workers    *worker.Manager
	)
	if cfg.RedisURL != "" {
		rc, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()

		if err := rc.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without cache and cleanup stream")
		} else {
			venueCache = cache.NewVenueCache(rc.Client, cfg.VenueCacheTTL)
			publisher = queue.NewPublisher(rc.Client)

			managerCfg := worker.DefaultManagerConfig()
			managerCfg.WorkerCount = cfg.CleanupWorkers
			workers = worker.NewManager(
				queue.NewConsumer(rc.Client),
				publisher,
				worker.NewHandler(store, noteRepo),
				managerCfg,
			)
			if err := workers.Start(ctx); err != nil {
				return fmt.Errorf("failed to start cleanup workers: %w", err)
			}
			defer workers.Stop()
		}
	}

	// 6. Services
	mediaService := service.NewMediaService(store)
	userService := service.NewUserService(userRepo, profileRepo, cfg.UniqueCaseInsensitive)
	authService := service.NewAuthService(cfg)
	venueService := service.NewVenueService(venueRepo, showRepo, venueCache, mediaService, store)
	artistService := service.NewArtistService(artistRepo, showRepo)
	showService := service.NewShowService(showRepo)
	noteService := service.NewNoteService(noteRepo, showRepo, db, store, mediaService, publisher)

	// 7. Handlers and routes
	routerCfg := RouterConfig{
		AuthHandler:   handler.NewAuthHandler(userService, authService, cfg.CookieSecure),
		UserHandler:   handler.NewUserHandler(userService, noteService),
		VenueHandler:  handler.NewVenueHandler(venueService),
		ArtistHandler: handler.NewArtistHandler(artistService),
		ShowHandler:   handler.NewShowHandler(showService),
		NoteHandler:   handler.NewNoteHandler(noteService),
		JWTSecret:     cfg.JWTSecret,
	}
	if local, ok := store.(*storage.LocalStore); ok && strings.HasPrefix(cfg.MediaURL, "/") {
		routerCfg.MediaHandler = handler.NewMediaHandler(local.Root(), cfg.MediaURL)
		routerCfg.MediaPath = cfg.MediaURL
	}

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
