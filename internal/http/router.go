package api

import (
	stdhttp "net/http"

	intconfig "tiketbus/internal/config"
	"tiketbus/internal/domain"
	h "tiketbus/internal/http/handlers"
	"tiketbus/internal/http/middleware"
	"tiketbus/internal/metrics"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and every /api route onto a fresh engine.
func NewRouter(env intconfig.Env, hd h.Handler, tokens middleware.TokenParser) *gin.Engine {
	h.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.Metrics(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "http", "router", "failed to set trusted proxies: "+err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message":    "route tidak ditemukan",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	hd.EnforceAdminAuth = env.EnforceAdminAuth
	admin := middleware.RequireRole(domain.RoleAdmin, env.EnforceAdminAuth)
	limiter := middleware.NewRateLimiter(env.RateLimitRPS, 0).Handler()

	api := r.Group("/api")
	api.Use(middleware.Auth(tokens, false))
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", admin, h.Routes)

		api.POST("/auth/login", limiter, hd.Login)

		jadwal := api.Group("/jadwal")
		jadwal.GET("", hd.ListSchedules)
		jadwal.GET("/:id", hd.GetSchedule)
		jadwal.GET("/:id/seats", hd.GetSeatMap)
		jadwal.POST("", admin, hd.CreateSchedule)
		jadwal.PATCH("/:id", admin, hd.UpdateSchedule)
		jadwal.PUT("/:id", admin, hd.UpdateSchedule)
		jadwal.DELETE("/:id", admin, hd.DeleteSchedule)

		pemesanan := api.Group("/pemesanan")
		pemesanan.GET("", hd.ListBookings)
		pemesanan.GET("/stats", admin, hd.BookingStats)
		pemesanan.GET("/:id", hd.GetBooking)
		pemesanan.GET("/:id/e-ticket", hd.GetETicketPDF)
		pemesanan.POST("", limiter, hd.CreateBooking)
		pemesanan.PATCH("/:id", limiter, admin, hd.UpdateBooking)
		pemesanan.PUT("/:id", limiter, admin, hd.UpdateBooking)
		pemesanan.PATCH("/:id/status", limiter, admin, hd.UpdateBookingStatus)
		pemesanan.PATCH("/:id/confirm", limiter, admin, hd.ConfirmBooking)
		pemesanan.PATCH("/:id/cancel", limiter, hd.CancelBooking)
		pemesanan.PATCH("/:id/complete", limiter, admin, hd.CompleteBooking)
		pemesanan.DELETE("/:id", limiter, admin, hd.DeleteBooking)

		users := api.Group("/users")
		users.GET("", admin, hd.ListUsers)
		users.GET("/:id", hd.GetUser)
		users.POST("", limiter, hd.CreateUser)
		users.PATCH("/:id", hd.UpdateUser)
		users.PUT("/:id", hd.UpdateUser)
		users.DELETE("/:id", admin, hd.DeleteUser)
	}

	h.SetRouter(r)
	return r
}
