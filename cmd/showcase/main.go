package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/Kroplewski-M/student-showcase/internal/config"
	"github.com/Kroplewski-M/student-showcase/internal/db"
	"github.com/Kroplewski-M/student-showcase/internal/filestore"
	"github.com/Kroplewski-M/student-showcase/internal/handler"
	"github.com/Kroplewski-M/student-showcase/internal/job"
	"github.com/Kroplewski-M/student-showcase/internal/mail"
	"github.com/Kroplewski-M/student-showcase/internal/middleware"
	"github.com/Kroplewski-M/student-showcase/internal/repo"
	"github.com/Kroplewski-M/student-showcase/internal/schedule"
	"github.com/Kroplewski-M/student-showcase/internal/service"
)

const tokenCleanupSpec = "*/15 * * * *"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "showcase",
		Short: "student showcase backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run showcase server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	credentialRepo := repo.NewCredentialRepo(conn)
	referenceRepo := repo.NewReferenceRepo(conn)

	notifier, err := mail.NewSESNotifier(ctx, cfg.Mail, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("init mail: %w", err)
	}
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	authService := service.NewAuthService(userRepo, credentialRepo, notifier)
	userService := service.NewUserService(userRepo, referenceRepo, store, int64(cfg.MaxImageSize)<<20)
	referenceService := service.NewReferenceService(referenceRepo)

	sessionCfg := middleware.SessionConfig{
		Secret:     []byte(cfg.JWTSecret),
		CookieName: cfg.CookieName,
		MaxAge:     time.Duration(cfg.JWTMaxAgeMins) * time.Minute,
		Secure:     cfg.Production,
	}

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService, sessionCfg),
		Users:       handler.NewUserHandler(userService),
		References:  handler.NewReferenceHandler(referenceService),
		Files:       handler.NewFileHandler(store),
		Session:     sessionCfg,
		Checker:     authService,
		AuthLimiter: time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewTokenCleanupJob(credentialRepo), tokenCleanupSpec); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
