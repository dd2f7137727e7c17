package api

import (
	"log"
	stdhttp "net/http"

	intconfig "rumboenvios/internal/config"
	h "rumboenvios/internal/http/handlers"
	"rumboenvios/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Everything below requires a bearer token.
		protected := api.Group("")
		protected.Use(middleware.Auth([]byte(env.JWTSecret)))

		// deletes are admin-only
		adminOnly := middleware.RequireRoles("admin")

		protected.GET("/stats", h.GetStats)

		// Companies
		companies := protected.Group("/companies")
		companies.GET("", h.GetCompanies)
		companies.GET("/:id", h.GetCompany)
		companies.POST("", h.CreateCompany)
		companies.PUT("/:id", h.UpdateCompany)
		companies.DELETE("/:id", adminOnly, h.DeleteCompany)

		// Clients
		clients := protected.Group("/clients")
		clients.GET("", h.GetClients)
		clients.GET("/:id", h.GetClient)
		clients.POST("", h.CreateClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", adminOnly, h.DeleteClient)

		// Drivers
		drivers := protected.Group("/drivers")
		drivers.GET("", h.GetDrivers)
		drivers.GET("/:id", h.GetDriver)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", adminOnly, h.DeleteDriver)

		// Trips
		trips := protected.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/:id", h.GetTrip)
		trips.POST("", h.CreateTrip)
		trips.PATCH("/:id/status", h.UpdateTripStatus)
		trips.GET("/:id/manifest", h.GetTripManifest)

		// Deliveries & batch assignment
		protected.POST("/assignments", h.CreateBatchAssignment)
		deliveries := protected.Group("/deliveries")
		deliveries.GET("", h.GetDeliveries)
		deliveries.POST("", h.CreateDelivery)
		deliveries.GET("/:id", h.GetDelivery)
		deliveries.PATCH("/:id/status", h.UpdateDeliveryStatus)
	}

	h.SetRouter(r)
	return r
}
