package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"staysync/core/config"
	"staysync/core/logger"
	"staysync/core/middleware/auth"
	"staysync/core/middleware/rayid"
	syncfeature "staysync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync engine server",
	Long: `Starts the HTTP trigger surface and, when a schedule is configured,
runs reconciliation periodically.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Build the reconciliation pipeline
		service, err := buildService(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to build sync service", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API). Liveness stays public.
		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
		}))

		// 4. Routes
		syncfeature.NewHandler(service).RegisterRoutes(app)

		// 5. Optional scheduler
		var scheduler *cron.Cron
		if cfg.Sync.Schedule != "" {
			scheduler = cron.New()
			_, err := scheduler.AddFunc(cfg.Sync.Schedule, func() {
				logg.Info("Scheduled reconciliation run starting")
				service.RunAll(cmd.Context())
			})
			if err != nil {
				logg.Fatal("Invalid sync schedule", zap.String("schedule", cfg.Sync.Schedule), zap.Error(err))
			}
			scheduler.Start()
			logg.Info("Scheduler started", zap.String("schedule", cfg.Sync.Schedule))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
