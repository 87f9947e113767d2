package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/udyam-mitra/udyam_mitra/internal/audit"
	"github.com/udyam-mitra/udyam_mitra/internal/config"
	"github.com/udyam-mitra/udyam_mitra/internal/forms"
	"github.com/udyam-mitra/udyam_mitra/internal/middleware"
	"github.com/udyam-mitra/udyam_mitra/internal/otp"
	"github.com/udyam-mitra/udyam_mitra/internal/pincode"
	"github.com/udyam-mitra/udyam_mitra/internal/response"
	"github.com/udyam-mitra/udyam_mitra/internal/sms"
	"github.com/udyam-mitra/udyam_mitra/internal/submission"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.AllowedOrigin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Idempotency-Key",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, 24*time.Hour, d.Logger))
	}

	// Liveness
	RegisterHealthRoutes(app, d)

	// Repositories: Postgres when a pool is wired, in-memory otherwise (dev).
	var (
		submissionRepo submission.Repository
		otpRepo        otp.Repository
		auditRepo      audit.Repository
	)
	if d.DB != nil {
		submissionRepo = submission.NewPostgresRepository(d.DB)
		otpRepo = otp.NewPostgresRepository(d.DB)
		auditRepo = audit.NewPostgresRepository(d.DB)
	} else {
		submissionRepo = submission.NewMemoryRepository()
		otpRepo = otp.NewMemoryRepository()
		auditRepo = audit.NewMemoryRepository()
	}

	// Services and handlers
	recorder := audit.NewRecorder(auditRepo, d.Logger)
	sender := sms.NewLoggerSender(d.Logger, d.Cfg.OTPTTL)
	submissionSvc := submission.NewService(submissionRepo, recorder)
	otpSvc := otp.NewService(otpRepo, submissionRepo, sender, recorder, d.Logger, d.Cfg.OTPTTL)
	submissionHandler := submission.NewHandler(submissionSvc, d.Logger)
	otpHandler := otp.NewHandler(otpSvc, d.Logger)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	api.Post("/submit", submissionHandler.Submit)
	api.Get("/submission/:submissionId", submissionHandler.Get)

	otpRateLimiter := middleware.OTPRateLimit(d.Cache, d.Cfg.OTPRequestPerMin)
	api.Post("/otp/request", otpRateLimiter, otpHandler.Request)
	api.Post("/otp/verify", otpHandler.Verify)

	api.Get("/schema", func(c *fiber.Ctx) error {
		return response.OK(c, "Form schema", forms.Registration)
	})
	api.Get("/pincode/:pincode", pincode.Handler())
	api.Get("/audit", audit.QueryHandler(recorder))

	RegisterAPIHealthRoute(api, d)

	return nil
}
