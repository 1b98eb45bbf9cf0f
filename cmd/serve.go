package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	database "condominio_backend/internals/databases"
	authService "condominio_backend/internals/features/users/auth/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
	"condominio_backend/internals/helpers/oss"
	"condominio_backend/internals/middlewares"
	routes "condominio_backend/internals/route"
	routeDetails "condominio_backend/internals/route/details"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan HTTP server",
	Example: `  # Server biasa
  condominio serve

  # Jalankan AutoMigrate dulu sebelum listen
  condominio serve --migrate`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Run AutoMigrate before listening")
}

// openDB: koneksi postgres + pool.
func openDB(cfg configs.AppConfig) (*gorm.DB, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	database.TunePool(db, cfg)
	return db, nil
}

// openRedis: redis opsional, kegagalan hanya diturunkan ke warning.
func openRedis(ctx context.Context, cfg configs.AppConfig) *redis.Client {
	log := configs.WithComponent("serve")
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR kosong, cache & blacklist memakai database")
		return nil
	}
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis tidak tersedia, cache & blacklist memakai database")
		return nil
	}
	return rdb
}

func openStore(ctx context.Context, cfg configs.AppConfig) oss.ObjectStore {
	log := configs.WithComponent("serve")
	if cfg.MinioEndpoint == "" {
		if cfg.IsProduction() {
			log.Warn().Msg("MINIO_ENDPOINT kosong, upload file nonaktif")
			return nil
		}
		log.Info().Msg("MINIO_ENDPOINT kosong, memakai memory store")
		return oss.NewMemoryStore()
	}
	store, err := oss.NewMinioStore(ctx, oss.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("minio tidak tersedia, upload file nonaktif")
		return nil
	}
	return store
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             int(configs.Cfg.MaxUploadBytes) + 1024*1024,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.JsonFromError(c, err)
		},
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := configs.Cfg
	log := configs.WithComponent("serve")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	rdb := openRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	clock := helper.SystemClock{}
	var blacklist helperAuth.TokenBlacklist = helperAuth.NewDBBlacklist(db, cfg.JWTSecret, clock)
	if rdb != nil {
		blacklist = helperAuth.NewRedisBlacklist(rdb, cfg.JWTSecret, clock)
	}
	auth := authService.NewAuthService(db,
		authService.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, clock),
		blacklist,
		authService.NewGoogleVerifier(cfg.GoogleAppID),
	)

	app := newApp()
	middlewares.SetupMiddlewares(app, cfg)
	routes.SetupRoutes(app, routeDetails.Deps{
		DB:    db,
		Redis: rdb,
		Store: openStore(ctx, cfg),
		Clock: clock,
		Cfg:   cfg,
		Auth:  auth,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("listening")
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
