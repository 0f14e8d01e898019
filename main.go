package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"skyview-backend/config"
	"skyview-backend/controllers"
	"skyview-backend/logger"
	"skyview-backend/metrics"
	"skyview-backend/models"
	"skyview-backend/repository"
	"skyview-backend/routes"
	"skyview-backend/services"
	"skyview-backend/utils"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to a TOML or YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting %s backend...", cfg.App.Name)
	if cfg.GeneratedSecret {
		log.Warn("JWT_SECRET not set, using a random secret: sessions will not survive a restart")
	}

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer config.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database: %v", err)
		}
		log.Info("Database schema migrated")
	}

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(cfg.Metrics.Namespace, reg)
		gatherer = reg
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	tokenStore := newTokenStore(cfg, log)

	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationLogRepository(db)

	whatsapp := services.NewWhatsAppService(cfg.WhatsApp)
	if whatsapp.IsConfigured() {
		log.Info("WhatsApp gateway configured (sender %s)", whatsapp.Sender())
	} else {
		log.Warn("WhatsApp gateway not configured: booking notifications will be skipped")
	}

	telegram, err := services.NewTelegramService(cfg.Telegram)
	if err != nil {
		log.Warn("Telegram notifications disabled: %v", err)
	} else if telegram.Enabled() {
		log.Info("Telegram admin notifications enabled")
	}

	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenTTL())

	bookingSvc := services.NewBookingService(bookingRepo, notificationRepo, whatsapp, telegram, m, log, services.BookingOptions{
		AppName:        cfg.App.Name,
		ContactPhone:   cfg.App.ContactPhone,
		Location:       cfg.Location(),
		NotifyCustomer: cfg.WhatsApp.NotifyCustomer,
	})
	userSvc := services.NewUserService(userRepo, tokens, tokenStore, m, log)
	notificationSvc := services.NewNotificationService(whatsapp, notificationRepo, m, log, cfg.App.Name)
	dashboardSvc := services.NewDashboardService(bookingRepo, cfg.Location())

	var digest *services.DigestService
	if cfg.Digest.Enabled {
		digest = services.NewDigestService(bookingRepo, notificationRepo, whatsapp, m, log, cfg.App.Name, cfg.Location())
		if err := digest.Start(cfg.Digest.Schedule); err != nil {
			log.Fatal("Failed to start digest scheduler: %v", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	r := routes.SetupRouter(routes.Dependencies{
		Config:        cfg,
		Log:           log,
		Metrics:       m,
		Gatherer:      gatherer,
		Tokens:        tokens,
		Revoked:       tokenStore,
		Roles:         userSvc,
		Bookings:      controllers.NewBookingController(bookingSvc, log),
		Auth:          controllers.NewAuthController(userSvc, log),
		Users:         controllers.NewUserController(userSvc, log),
		Notifications: controllers.NewNotificationController(notificationSvc, log),
		Dashboard:     controllers.NewDashboardController(dashboardSvc, log),
		Ping:          pinger(db),
	})
	printRoutes(r)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if digest != nil {
		digest.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

// newTokenStore uses Redis when an address is configured and reachable.
func newTokenStore(cfg *config.Config, log *logger.Logger) services.TokenStore {
	if cfg.Redis.Address == "" {
		log.Info("Redis not configured, logout revocations are kept in memory")
		return repository.NewMemoryTokenStore()
	}

	client := repository.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, client); err != nil {
		log.Warn("%v, logout revocations are kept in memory", err)
		repository.Close(client)
		return repository.NewMemoryTokenStore()
	}
	log.Info("Redis connected at %s", cfg.Redis.Address)
	return repository.NewRedisTokenStore(client)
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
