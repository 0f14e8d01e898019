package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skyview-backend/config"
	"skyview-backend/controllers"
	"skyview-backend/metrics"
	"skyview-backend/models"
	"skyview-backend/utils"
)

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type Dependencies struct {
	Config        *config.Config
	Log           Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Tokens        *utils.TokenManager
	Revoked       utils.RevocationChecker
	Roles         utils.RoleLookup
	Bookings      *controllers.BookingController
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Notifications *controllers.NotificationController
	Dashboard     *controllers.DashboardController
	// Ping reports database health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		d.Log.Error("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}))

	r.Use(cors.New(corsConfig(d.Config.Server.AllowedOrigins)))

	r.Use(config.PerformanceLogger(d.Log))
	r.Use(d.Metrics.Middleware())

	if d.Config.Metrics.Enabled && d.Gatherer != nil {
		r.GET(d.Config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	authRequired := utils.AuthMiddleware(d.Tokens, d.Revoked)
	adminOnly := utils.RequireRole(d.Roles, string(models.RoleAdmin))

	api := r.Group("/api")
	{
		// Public booking form
		api.POST("/book", d.Bookings.SubmitBooking)
		api.POST("/validate", d.Bookings.ValidateCustomer)

		bookings := api.Group("/bookings", authRequired)
		{
			bookings.GET("", d.Bookings.GetBookings)
			bookings.GET("/export", d.Bookings.ExportBookings)
			bookings.GET("/:id", d.Bookings.GetBooking)
			bookings.PATCH("/:id", d.Bookings.UpdateBooking)
		}

		api.GET("/dashboard", authRequired, d.Dashboard.GetDashboardOverview)

		admin := api.Group("/admin")
		{
			admin.POST("/login", d.Auth.Login)
			admin.POST("/setup", d.Auth.Setup)

			session := admin.Group("", authRequired)
			session.POST("/logout", d.Auth.Logout)
			session.GET("/me", d.Auth.Me)

			restricted := admin.Group("", authRequired, adminOnly)
			{
				restricted.GET("/users", d.Users.GetUsers)
				restricted.POST("/users", d.Users.CreateUser)
				restricted.GET("/users/:id", d.Users.GetUser)
				restricted.PATCH("/users/:id", d.Users.UpdateUser)
				restricted.DELETE("/users/:id", d.Users.DeleteUser)

				restricted.GET("/notifications", d.Notifications.GetNotificationLogs)
				restricted.GET("/whatsapp/status", d.Notifications.WhatsAppStatus)
				restricted.POST("/whatsapp/test", d.Notifications.SendTestMessage)
				restricted.POST("/whatsapp/test-template", d.Notifications.SendTestTemplate)
			}
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		// Echo the caller's origin: "*" is not accepted with credentials.
		cfg.AllowOriginFunc = func(origin string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
