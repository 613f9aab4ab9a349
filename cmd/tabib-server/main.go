package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tabib/tabib/internal/config"
	"github.com/tabib/tabib/internal/domain/booking"
	"github.com/tabib/tabib/internal/domain/doctor"
	"github.com/tabib/tabib/internal/domain/identity"
	"github.com/tabib/tabib/internal/domain/patient"
	"github.com/tabib/tabib/internal/domain/review"
	"github.com/tabib/tabib/internal/domain/scheduling"
	"github.com/tabib/tabib/internal/platform/auth"
	"github.com/tabib/tabib/internal/platform/blobstore"
	"github.com/tabib/tabib/internal/platform/cache"
	"github.com/tabib/tabib/internal/platform/db"
	"github.com/tabib/tabib/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabib-server",
		Short: "Tabib appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// seedCmd inserts a demo doctor and patient with a weekday schedule so a
// fresh database has something to browse. Reruns are no-ops.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts and availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := auth.HashPassword("password123")
			if err != nil {
				return err
			}

			return db.WithTx(ctx, pool, func(ctx context.Context) error {
				tx := db.TxFromContext(ctx)

				doctorUser := uuid.New()
				tag, err := tx.Exec(ctx, `
					INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					ON CONFLICT (email) DO NOTHING`,
					doctorUser, "dr.amina@tabib.example", hash, "Amina", "Haddad", "+212600000001", "doctor")
				if err != nil {
					return err
				}
				if tag.RowsAffected() > 0 {
					profile := uuid.New()
					_, err = tx.Exec(ctx, `
						INSERT INTO doctor_profile (id, user_id, specialty, license, address, city, bio, consultation_fee)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
						profile, doctorUser, "Cardiology", "MA-12345",
						"12 Avenue Hassan II", "Casablanca",
						"Cardiologist with 10 years of practice.", 300.00)
					if err != nil {
						return err
					}
					// Monday through Friday, mornings and afternoons.
					for day := 1; day <= 5; day++ {
						for _, w := range [][2]string{{"09:00", "12:00"}, {"14:00", "17:00"}} {
							_, err = tx.Exec(ctx, `
								INSERT INTO availability_rule (id, doctor_id, day_of_week, start_time, end_time)
								VALUES ($1, $2, $3, $4, $5)`,
								uuid.New(), profile, day, w[0], w[1])
							if err != nil {
								return err
							}
						}
					}
					fmt.Println("Seeded demo doctor dr.amina@tabib.example")
				}

				tag, err = tx.Exec(ctx, `
					INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					ON CONFLICT (email) DO NOTHING`,
					uuid.New(), "youssef@tabib.example", hash, "Youssef", "Benali", "+212600000002", "patient")
				if err != nil {
					return err
				}
				if tag.RowsAffected() > 0 {
					fmt.Println("Seeded demo patient youssef@tabib.example")
				}
				return nil
			})
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Cache: Redis when configured, in-process otherwise.
	var searchCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		searchCache = redisCache
		logger.Info().Msg("connected to redis")
	}

	// Profile photo storage
	photos, err := blobstore.NewDisk(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to prepare upload directory")
	}

	// Token manager
	tokens := auth.NewManager(cfg.TokenSecret(), time.Duration(cfg.TokenTTLHours)*time.Hour)

	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API groups
	public := e.Group("/api")
	authed := e.Group("/api", auth.Middleware(tokens))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	public.Use(middleware.RateLimit(rateLimitCfg))
	authed.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Uploaded profile photos are served straight from disk.
	e.Static("/uploads", cfg.UploadDir)

	// -- Register Domain Handlers --

	userRepo := identity.NewRepoPG(pool)
	doctorRepo := doctor.NewRepoPG(pool)
	schedRepo := scheduling.NewRepoPG(pool)
	bookingRepo := booking.NewRepoPG(pool)
	reviewRepo := review.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)

	identitySvc := identity.NewService(userRepo, doctorRepo, tokens, photos, runTx)
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterRoutes(public, authed)

	doctorSvc := doctor.NewService(doctorRepo, userRepo, searchCache)
	doctorHandler := doctor.NewHandler(doctorSvc)
	doctorHandler.RegisterRoutes(public, authed)

	schedSvc := scheduling.NewService(schedRepo, doctorRepo, runTx)
	schedHandler := scheduling.NewHandler(schedSvc)
	schedHandler.RegisterRoutes(public, authed)

	bookingSvc := booking.NewService(bookingRepo, doctorRepo)
	bookingHandler := booking.NewHandler(bookingSvc)
	bookingHandler.RegisterRoutes(authed)

	reviewSvc := review.NewService(reviewRepo, doctorRepo, doctorSvc)
	reviewHandler := review.NewHandler(reviewSvc)
	reviewHandler.RegisterRoutes(public, authed)

	patientSvc := patient.NewService(patientRepo)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(authed)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
