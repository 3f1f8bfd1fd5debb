package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/program-framework/program-backend/pkg/apihelpers"
	mw "github.com/program-framework/program-backend/pkg/apihelpers/middlewares"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) addContentAPI(rg *gin.RouterGroup) {
	contentGroup := rg.Group("/content")
	contentGroup.Use(mw.GetAndValidateAdminJWT(h.tokenSignKey))
	{
		contentGroup.GET("/events", h.getEvents)
		contentGroup.GET("/events/:aid", h.getEvent)
		contentGroup.PUT("/events", mw.IsAdminUser(), mw.RequirePayload(), h.saveEvent)

		contentGroup.GET("/pools", h.getPools)
		contentGroup.PUT("/pools", mw.IsAdminUser(), mw.RequirePayload(), h.savePool)

		contentGroup.GET("/prompts", h.getPrompts) // ?scope=scope&language=language
		contentGroup.PUT("/prompts", mw.IsAdminUser(), mw.RequirePayload(), h.upsertPrompt)
		contentGroup.DELETE("/prompts", mw.IsAdminUser(), h.deletePrompt) // ?prompt=prompt&language=language

		contentGroup.GET("/students", mw.IsAdminUser(), h.getStudents) // ?page=1&limit=10&sort={}&filter={}

		contentGroup.GET("/indexes", mw.IsAdminUser(), h.getIndexes)
	}
}

func (h *HttpEndpoints) getStudents(c *gin.Context) {
	query, err := apihelpers.ParsePaginatedQueryFromCtx(c)
	if err != nil {
		slog.Error("failed to parse query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	students, total, err := h.dashboardDBConn.GetStudentsPaginated(*query)
	if err != nil {
		slog.Error("error fetching students", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    total,
		"page":     query.Page,
		"limit":    query.Limit,
	})
}

func (h *HttpEndpoints) getIndexes(c *gin.Context) {
	indexes, err := h.dashboardDBConn.ListIndexes()
	if err != nil {
		slog.Error("error listing indexes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing indexes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"indexes": indexes})
}

func (h *HttpEndpoints) getEvents(c *gin.Context) {
	events, err := h.dashboardDBConn.GetAllEvents()
	if err != nil {
		slog.Error("error fetching events", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *HttpEndpoints) getEvent(c *gin.Context) {
	aid := c.Param("aid")

	event, err := h.dashboardDBConn.GetEventByAID(aid)
	if err != nil {
		slog.Warn("event not found", slog.String("aid", aid), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *HttpEndpoints) saveEvent(c *gin.Context) {
	var event dashboardTypes.EventDefinition
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if event.AID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aid is required"})
		return
	}

	saved, err := h.dashboardDBConn.SaveEvent(event)
	if err != nil {
		slog.Error("error saving event", slog.String("aid", event.AID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": saved})
}

func (h *HttpEndpoints) getPools(c *gin.Context) {
	pools, err := h.dashboardDBConn.GetAllPools()
	if err != nil {
		slog.Error("error fetching pools", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching pools"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func (h *HttpEndpoints) savePool(c *gin.Context) {
	var pool dashboardTypes.Pool
	if err := c.ShouldBindJSON(&pool); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if pool.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	saved, err := h.dashboardDBConn.SavePool(pool)
	if err != nil {
		slog.Error("error saving pool", slog.String("name", pool.Name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving pool"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pool": saved})
}

func (h *HttpEndpoints) getPrompts(c *gin.Context) {
	scope := c.DefaultQuery("scope", dashboardTypes.PROMPT_SCOPE_DEFAULT)
	language := c.DefaultQuery("language", dashboardTypes.DEFAULT_LANGUAGE)

	entries, err := h.dashboardDBConn.GetPromptsForScope(scope, language)
	if err != nil {
		slog.Error("error fetching prompts", slog.String("scope", scope), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching prompts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": entries})
}

func (h *HttpEndpoints) upsertPrompt(c *gin.Context) {
	var entry dashboardTypes.PromptEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if entry.Prompt == "" || entry.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt and language are required"})
		return
	}

	saved, err := h.dashboardDBConn.UpsertPromptEntry(entry)
	if err != nil {
		slog.Error("error saving prompt", slog.String("prompt", entry.Prompt), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": saved})
}

func (h *HttpEndpoints) deletePrompt(c *gin.Context) {
	prompt := c.DefaultQuery("prompt", "")
	language := c.DefaultQuery("language", "")
	if prompt == "" || language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt and language are required"})
		return
	}

	count, err := h.dashboardDBConn.DeletePromptEntry(prompt, language)
	if err != nil {
		slog.Error("error deleting prompt", slog.String("prompt", prompt), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": count})
}
