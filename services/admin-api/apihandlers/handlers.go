package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	mw "github.com/program-framework/program-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/program-framework/program-backend/pkg/jwt-handling"
	"github.com/gin-gonic/gin"

	dashboardDB "github.com/program-framework/program-backend/pkg/db/dashboard"
	workorderDB "github.com/program-framework/program-backend/pkg/db/workorder"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	dashboardDBConn *dashboardDB.DashboardDBService
	workOrderDBConn *workorderDB.WorkOrderDBService
	tokenSignKey    string
	tokenExpiresIn  time.Duration
	apiKeys         []string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	dashboardDBConn *dashboardDB.DashboardDBService,
	workOrderDBConn *workorderDB.WorkOrderDBService,
	apiKeys []string,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:    tokenSignKey,
		tokenExpiresIn:  tokenExpiresIn,
		dashboardDBConn: dashboardDBConn,
		workOrderDBConn: workOrderDBConn,
		apiKeys:         apiKeys,
	}
}

func (h *HttpEndpoints) AddAdminAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	authGroup.Use(mw.HasValidAPIKey(h.apiKeys))
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginAdmin)
	}

	h.addWorkOrderAPI(rg)
	h.addContentAPI(rg)
}

// loginAdmin is called by the upstream auth relay after it has verified the
// admin user's identity.
func (h *HttpEndpoints) loginAdmin(c *gin.Context) {
	var req struct {
		UserID  string `json:"userID"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.UserID == "" {
		slog.Error("userID is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
		return
	}

	token, err := jwthandling.GenerateNewAdminToken(
		h.tokenExpiresIn,
		req.UserID,
		req.IsAdmin,
		nil,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("error generating token", slog.String("userID", req.UserID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
	})
}
