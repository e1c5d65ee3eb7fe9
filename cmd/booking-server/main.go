package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/smartbooker/backend/internal/booking"
	"github.com/smartbooker/backend/internal/events"
	"github.com/smartbooker/backend/internal/handlers"
	"github.com/smartbooker/backend/internal/notify"
	"github.com/smartbooker/backend/internal/scheduler"
	"github.com/smartbooker/backend/internal/store"
	"github.com/smartbooker/backend/libs/config"
	"github.com/smartbooker/backend/libs/db"
	"github.com/smartbooker/backend/libs/httpx"
	"github.com/smartbooker/backend/libs/kafkax"
	otelx "github.com/smartbooker/backend/libs/otel"
	"github.com/smartbooker/backend/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-server")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var readyChecks []runtime.ReadyCheck
	var appointmentStore store.AppointmentStore

	switch driver := strings.ToLower(config.String("STORE_DRIVER", "file")); driver {
	case "postgres":
		dbURL, err := config.RequiredString("DATABASE_URL")
		if err != nil {
			panic(err)
		}
		pool, err := db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()

		pg := store.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("schema setup failed", "err", err)
			panic(err)
		}
		appointmentStore = pg
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
	case "memory":
		appointmentStore = store.NewMemoryStore()
	default:
		fileStore := store.NewFileStore(config.String("APPOINTMENTS_FILE", "appointments.json"))
		if err := fileStore.Ensure(ctx); err != nil {
			logger.Error("appointments file setup failed", "err", err)
			panic(err)
		}
		appointmentStore = fileStore
	}
	synced := store.NewSynced(appointmentStore)

	var sender notify.Sender
	switch strings.ToLower(config.String("NOTIFY_PROVIDER", "log")) {
	case "smtp":
		sender = notify.NewSMTPSender(
			config.String("SMTP_HOST", "mailpit"),
			config.String("SMTP_PORT", "1025"),
			config.String("SMTP_FROM", "no-reply@smartbooker.local"),
		)
	case "noop":
		sender = notify.NewNoopSender()
	default:
		sender = notify.NewLogSender(logger)
	}

	brokers := config.String("KAFKA_BROKERS", "")
	publisher := events.NewPublisher(brokers, logger)
	defer publisher.Close()
	if brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}

	bookingSvc := booking.NewService(synced, sender, publisher, logger, booking.Config{
		DemoDelay: config.Duration("DEMO_REMINDER_DELAY", 10*time.Second),
	})

	worker := scheduler.NewWorker(synced, sender, publisher, logger, scheduler.Config{
		Interval:   config.Duration("SCAN_INTERVAL", time.Hour),
		TargetHour: config.Int("REMINDER_HOUR", 9),
	})
	go worker.Run(ctx)
	logger.Info("reminder scheduler started")

	bookingHandler := handlers.NewBookingHandler(bookingSvc, logger)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/check", bookingHandler.Check)
	mux.HandleFunc("/book", bookingHandler.Book)
	mux.HandleFunc("/cancel", bookingHandler.Cancel)
	mux.HandleFunc("/appointments", bookingHandler.Appointments)
	mux.HandleFunc("/health", bookingHandler.Health)

	rateLimit := config.Int("RATE_LIMIT", 120)
	rateWindow := config.Duration("RATE_LIMIT_WINDOW", time.Minute)
	var limiter httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = rdb.Close() }()
		limiter = httpx.NewRedisRateLimiter(rdb, rateLimit, rateWindow, service).Middleware(logger, true)
	} else {
		limiter = httpx.NewRateLimiter(rateLimit, rateWindow).Middleware()
	}

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", "*"), ","),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		limiter,
		httpx.WithBodyLimit(bodyLimit),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
