package main

import (
	"log/slog"
	"time"

	"github.com/program-framework/program-backend/pkg/apihelpers"
	"github.com/program-framework/program-backend/pkg/dashboard"
	"github.com/program-framework/program-backend/services/dashboard-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	loaders := &dbLoaders{dashboardDBConn: dashboardDBService}
	sessionManager := dashboard.NewManager(loaders, loaders)

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length", "Api-Key"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.StudentJWTConfig.SignKey,
		conf.StudentJWTConfig.ExpiresIn,
		dashboardDBService,
		sessionManager,
		conf.APIKeys,
	)
	v1APIHandlers.AddDashboardAPI(v1Root)

	if conf.GinConfig.DebugMode {
		apihelpers.WriteRoutesToFile(router, "dashboard-api-routes.txt")
	}

	// Start the server
	slog.Info("Starting Dashboard API on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Dashboard API", slog.String("error", err.Error()))
		return
	}
}
