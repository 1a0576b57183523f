package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RemoteState/secondlife-server/config"
	"github.com/RemoteState/secondlife-server/cronJobs"
	"github.com/RemoteState/secondlife-server/database"
	"github.com/RemoteState/secondlife-server/dbHelpers"
	"github.com/RemoteState/secondlife-server/firebase"
	"github.com/RemoteState/secondlife-server/handlers"
	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/server"
	"github.com/RemoteState/secondlife-server/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type closer func(ctx context.Context) error

func setupLogger(cfg *config.Config) {
	logrus.SetLevel(cfg.ParseLogLevel())
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// newItemStore opens the configured backend; postgres gets migrated on the way.
func newItemStore(ctx context.Context, cfg *config.Config) (dbHelpers.ItemStore, closer, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.ConnectAndMigrate(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword,
			database.SSLMode(cfg.DBSSLMode))
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to initialize and migrate database")
		}
		logrus.Print("migration successful!!")
		return dbHelpers.NewPostgresStore(db), func(context.Context) error { return db.Close() }, nil
	case config.StoreMongo:
		collection, disconnect, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to mongodb")
		}
		return dbHelpers.NewMongoStore(collection), disconnect, nil
	case config.StoreMemory:
		logrus.Warn("using in-memory item store, data is lost on restart")
		return dbHelpers.NewMemoryStore(), nil, nil
	default:
		return nil, nil, errors.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// newMediaStorage returns the image storage and, for local storage, the directory to serve.
func newMediaStorage(ctx context.Context, cfg *config.Config) (media.Storage, string, error) {
	switch cfg.MediaBackend {
	case config.MediaFirebase:
		storage, err := firebase.NewStorage(ctx, cfg.FirebaseKey, cfg.FirebaseBucket, cfg.MediaFolder, cfg.SignedURLs, cfg.SignedURLTTL)
		if err != nil {
			return nil, "", err
		}
		return storage, "", nil
	case config.MediaLocal:
		storage, err := media.NewLocalStorage(cfg.MediaLocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return storage, storage.Dir(), nil
	default:
		return nil, "", errors.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)
	utils.HideErrorDetails(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closers := make([]closer, 0)

	store, closeStore, err := newItemStore(ctx, cfg)
	if err != nil {
		logrus.Panicf("Failed to initialize item store with error: %+v", err)
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	if cfg.CacheEnabled() {
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logrus.Errorf("Failed to connect to redis, running without cache: %v", err)
		} else {
			closers = append(closers, func(context.Context) error { return redisClient.Close() })
			cached := &dbHelpers.CachedStore{ItemStore: store, Cache: redisClient, TTL: cfg.CacheTTL}
			store = cached

			if cfg.CacheRefreshEnabled() {
				scheduler, err := cronJobs.InitiateCronJobs(ctx, cfg.CacheRefreshSchedule, cached)
				if err != nil {
					logrus.Error("error from cron job", err)
				} else {
					closers = append(closers, func(context.Context) error { scheduler.Stop(); return nil })
				}
			}
		}
	}
	store = &dbHelpers.LoggingStore{ItemStore: store}

	storage, uploadsDir, err := newMediaStorage(ctx, cfg)
	if err != nil {
		logrus.Panicf("Failed to initialize media storage with error: %+v", err)
	}

	// create server instance
	srv := server.SetupRoutes(handlers.New(store, storage, cfg.Environment), server.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		UploadsDir:     uploadsDir,
	})
	httpServer := srv.HTTPServer(":" + cfg.Port)

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"env":   cfg.Environment,
			"store": store.Name(),
			"media": storage.Name(),
		}).Print("Server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("Failed to run server with error: %+v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Failed to shutdown server gracefully: %v", err)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](shutdownCtx); err != nil {
			logrus.Errorf("Failed to release resource: %v", err)
		}
	}
	logrus.Info("server stopped")
}
