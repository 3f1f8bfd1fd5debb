package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/program-framework/program-backend/pkg/apihelpers/middlewares"
	"github.com/program-framework/program-backend/pkg/dashboard"
	jwthandling "github.com/program-framework/program-backend/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddDashboardAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	authGroup.Use(mw.HasValidAPIKey(h.apiKeys))
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginStudent)
	}

	dashboardGroup := rg.Group("/dashboard")
	dashboardGroup.Use(mw.GetAndValidateStudentJWT(h.tokenSignKey))
	{
		dashboardGroup.GET("", h.getDashboard)
		dashboardGroup.PUT("/language", mw.RequirePayload(), h.setLanguage)
		dashboardGroup.POST("/events/:aid/click", h.recordEventClick)
		dashboardGroup.PUT("/email-preferences", mw.RequirePayload(), h.updateEmailPreferences)
		dashboardGroup.PUT("/practice/:field", mw.RequirePayload(), h.updatePracticeCount)
	}

	webhooksGroup := rg.Group("/webhooks")
	webhooksGroup.Use(mw.HasValidAPIKey(h.apiKeys))
	{
		webhooksGroup.POST("/student-updated", mw.RequirePayload(), h.studentUpdated)
		webhooksGroup.POST("/content-updated", h.contentUpdated)
	}
}

// loginStudent is called by the upstream auth relay after it has verified the
// student's identity. It builds (or reuses) the dashboard session and returns
// a token bound to it.
func (h *HttpEndpoints) loginStudent(c *gin.Context) {
	var req struct {
		PID      string `json:"pid"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PID == "" {
		slog.Error("pid is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "pid is required"})
		return
	}

	session, err := h.sessionManager.GetOrCreate(req.PID, req.Language)
	if err != nil {
		slog.Error("error creating session", slog.String("pid", req.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating session"})
		return
	}

	token, err := jwthandling.GenerateNewStudentToken(
		h.tokenExpiresIn,
		req.PID,
		session.ID,
		nil,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("error generating token", slog.String("pid", req.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
	})
}

func (h *HttpEndpoints) getDashboard(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.StudentClaims)

	session, err := h.sessionManager.GetOrCreate(token.PID, "")
	if err != nil {
		slog.Error("error loading session", slog.String("pid", token.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading dashboard"})
		return
	}

	student := session.Student()
	c.JSON(http.StatusOK, gin.H{
		"language":         session.Language(),
		"rows":             session.Content(),
		"showcaseVideos":   session.Showcase(),
		"emailPreferences": student.EmailPreferences,
		"practice":         student.Practice,
	})
}

func (h *HttpEndpoints) setLanguage(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.StudentClaims)

	var req struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionManager.GetOrCreate(token.PID, "")
	if err != nil {
		slog.Error("error loading session", slog.String("pid", token.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading dashboard"})
		return
	}

	if err := session.SetLanguage(req.Language); err != nil {
		if errors.Is(err, dashboard.ErrSupersededRefresh) {
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
			return
		}
		slog.Error("error switching language", slog.String("pid", token.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error switching language"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": session.Language(),
		"rows":     session.Content(),
	})
}

func (h *HttpEndpoints) recordEventClick(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.StudentClaims)
	aid := c.Param("aid")

	if err := h.dashboardDBConn.RecordClick(token.PID, aid); err != nil {
		slog.Error("error recording click", slog.String("pid", token.PID), slog.String("aid", aid), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error recording click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "click recorded"})
}

func (h *HttpEndpoints) updateEmailPreferences(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.StudentClaims)

	var req struct {
		EmailPreferences map[string]bool `json:"emailPreferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dashboardDBConn.UpdateEmailPreferences(token.PID, req.EmailPreferences); err != nil {
		slog.Error("error updating email preferences", slog.String("pid", token.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating email preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "email preferences updated"})
}

func (h *HttpEndpoints) updatePracticeCount(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.StudentClaims)
	field := c.Param("field")

	var req struct {
		Value int64 `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dashboardDBConn.UpdatePracticeCount(token.PID, field, req.Value); err != nil {
		slog.Error("error updating practice count", slog.String("pid", token.PID), slog.String("field", field), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating practice count"})
		return
	}

	// practice counts feed eligibility, refresh the session state
	if err := h.sessionManager.Invalidate(token.PID); err != nil && !errors.Is(err, dashboard.ErrSupersededRefresh) {
		slog.Warn("error refreshing session after practice update", slog.String("pid", token.PID), slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"msg": "practice count updated"})
}

// studentUpdated handles external update notifications from the record system.
func (h *HttpEndpoints) studentUpdated(c *gin.Context) {
	var req struct {
		PID string `json:"pid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PID == "" {
		slog.Error("pid is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "pid is required"})
		return
	}

	if err := h.sessionManager.Invalidate(req.PID); err != nil && !errors.Is(err, dashboard.ErrSupersededRefresh) {
		slog.Error("error refreshing session", slog.String("pid", req.PID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error refreshing session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "student refreshed"})
}

// contentUpdated handles notifications that pools, events or prompts changed,
// typically sent by the admin API after a save.
func (h *HttpEndpoints) contentUpdated(c *gin.Context) {
	failed := h.sessionManager.InvalidateAll()
	if failed > 0 {
		slog.Warn("some sessions failed to refresh", slog.Int("failed", failed))
	}

	c.JSON(http.StatusOK, gin.H{"msg": "sessions refreshed", "failed": failed})
}
