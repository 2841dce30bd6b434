package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkpost/internal/config"
	apphttp "inkpost/internal/http"
	"inkpost/internal/repository"
	"inkpost/internal/repository/memory"
	"inkpost/internal/repository/sqlite"
	"inkpost/internal/service"
	"inkpost/internal/session"
	"inkpost/internal/storage"
	"inkpost/internal/upload"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, postRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup repositories: %v", err)
	}
	defer cleanup()

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)

	store, uploadDir, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup upload storage: %v", err)
	}
	intake := upload.NewIntake(store, upload.DefaultAllowedExtensions)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	sessions := session.NewStore()
	tokens := session.NewTokenCodec(cfg.Auth.JWTSecret, tokenTTL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		postService,
		sessions,
		tokens,
		intake,
		uploadDir,
		tokenTTL,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.PostRepository, func(), error) {
	switch cfg.Repository.Backend {
	case "", "memory":
		logger.Info("using in-memory repositories")
		return memory.NewUserRepository(), memory.NewPostRepository(), func() {}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}

		userRepo := sqlite.NewUserRepository(db)
		postRepo := sqlite.NewPostRepository(db)
		if err := userRepo.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init user repository: %w", err)
		}
		if err := postRepo.Init(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("init post repository: %w", err)
		}

		logger.Infof("using sqlite repositories at %s", cfg.Database.Path)
		return userRepo, postRepo, func() { db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown repository backend %q", cfg.Repository.Backend)
	}
}

// buildStore picks the upload backend. The returned dir is non-empty only
// for the local backend, where the HTTP layer serves /uploads itself.
func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, string, error) {
	switch cfg.Upload.Backend {
	case "", "local":
		store, err := storage.NewLocalStore(cfg.Upload.Dir)
		if err != nil {
			return nil, "", err
		}
		logger.Infof("storing uploads in %s", store.Dir())
		return store, store.Dir(), nil
	case "s3":
		if cfg.Storage.Bucket == "" {
			return nil, "", fmt.Errorf("storage bucket is required")
		}

		loadOpts := []func(*awscfg.LoadOptions) error{
			awscfg.WithRegion(cfg.Storage.Region),
		}
		if cfg.AWS.Profile != "" {
			loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
		}

		awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Storage.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
				o.UsePathStyle = true
			}
		})
		logger.Infof("storing uploads in s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
		return storage.NewS3Store(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix), "", nil
	default:
		return nil, "", fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}
