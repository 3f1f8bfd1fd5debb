package apihandlers

import (
	"net/http"
	"time"

	"github.com/program-framework/program-backend/pkg/dashboard"
	dashboardDB "github.com/program-framework/program-backend/pkg/db/dashboard"
	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	dashboardDBConn *dashboardDB.DashboardDBService
	sessionManager  *dashboard.Manager
	tokenSignKey    string
	tokenExpiresIn  time.Duration
	apiKeys         []string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	dashboardDBConn *dashboardDB.DashboardDBService,
	sessionManager *dashboard.Manager,
	apiKeys []string,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:    tokenSignKey,
		tokenExpiresIn:  tokenExpiresIn,
		dashboardDBConn: dashboardDBConn,
		sessionManager:  sessionManager,
		apiKeys:         apiKeys,
	}
}
