package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/program-framework/program-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/program-framework/program-backend/pkg/jwt-handling"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) addWorkOrderAPI(rg *gin.RouterGroup) {
	workOrdersGroup := rg.Group("/work-orders")
	workOrdersGroup.Use(mw.GetAndValidateAdminJWT(h.tokenSignKey))
	{
		workOrdersGroup.GET("", h.getWorkOrders) // ?eventCode=eventCode
		workOrdersGroup.POST("", mw.IsAdminUser(), mw.RequirePayload(), h.createWorkOrder)
		workOrdersGroup.GET("/:workOrderID", h.getWorkOrder)
		workOrdersGroup.PUT("/:workOrderID/unlock", mw.IsAdminUser(), h.unlockWorkOrder)
		workOrdersGroup.PUT("/:workOrderID/interrupt", mw.IsAdminUser(), h.interruptWorkOrder)
	}
}

func (h *HttpEndpoints) getWorkOrders(c *gin.Context) {
	eventCode := c.DefaultQuery("eventCode", "")
	if eventCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventCode is required"})
		return
	}

	workOrders, err := h.workOrderDBConn.GetWorkOrdersForEvent(eventCode)
	if err != nil {
		slog.Error("error fetching work orders", slog.String("eventCode", eventCode), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching work orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workOrders": workOrders})
}

func (h *HttpEndpoints) createWorkOrder(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AdminClaims)

	var req struct {
		EventCode string                         `json:"eventCode"`
		SubEvent  string                         `json:"subEvent"`
		Languages []string                       `json:"languages"`
		Subjects  map[string]string              `json:"subjects"`
		Account   string                         `json:"account"`
		Config    messagingTypes.WorkOrderConfig `json:"config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EventCode == "" || req.Config.TargetPool == "" {
		slog.Error("eventCode and targetPool are required", slog.String("userID", token.ID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventCode and targetPool are required"})
		return
	}

	if _, err := h.dashboardDBConn.GetEventByAID(req.EventCode); err != nil {
		slog.Warn("event not found", slog.String("eventCode", req.EventCode), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "event not found"})
		return
	}

	workOrder, err := h.workOrderDBConn.CreateWorkOrder(messagingTypes.WorkOrder{
		EventCode: req.EventCode,
		SubEvent:  req.SubEvent,
		Languages: req.Languages,
		Subjects:  req.Subjects,
		Account:   req.Account,
		Config:    req.Config,
	})
	if err != nil {
		slog.Error("error creating work order", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating work order"})
		return
	}

	slog.Info("work order created", slog.String("workOrderID", workOrder.ID), slog.String("eventCode", workOrder.EventCode), slog.String("userID", token.ID))
	c.JSON(http.StatusOK, gin.H{"workOrder": workOrder})
}

func (h *HttpEndpoints) getWorkOrder(c *gin.Context) {
	workOrderID := c.Param("workOrderID")

	workOrder, err := h.workOrderDBConn.GetWorkOrderByID(workOrderID)
	if err != nil {
		slog.Warn("work order not found", slog.String("workOrderID", workOrderID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "work order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workOrder": workOrder})
}

// unlockWorkOrder releases a lock left behind by a crashed runner.
func (h *HttpEndpoints) unlockWorkOrder(c *gin.Context) {
	workOrderID := c.Param("workOrderID")

	if err := h.workOrderDBConn.UnlockWorkOrder(workOrderID); err != nil {
		slog.Error("error unlocking work order", slog.String("workOrderID", workOrderID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error unlocking work order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "work order unlocked"})
}

// interruptWorkOrder marks the active step as interrupted so the runner stops
// picking the work order up.
func (h *HttpEndpoints) interruptWorkOrder(c *gin.Context) {
	workOrderID := c.Param("workOrderID")

	workOrder, err := h.workOrderDBConn.GetWorkOrderByID(workOrderID)
	if err != nil {
		slog.Warn("work order not found", slog.String("workOrderID", workOrderID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "work order not found"})
		return
	}

	activeStep, ok := workOrder.ActiveStep()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "work order has no active step"})
		return
	}

	err = h.workOrderDBConn.UpdateWorkOrderStep(
		workOrderID,
		activeStep.Name,
		messagingTypes.WORK_ORDER_STEP_STATUS_INTERRUPTED,
		"interrupted by admin",
	)
	if err != nil {
		slog.Error("error interrupting work order", slog.String("workOrderID", workOrderID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interrupting work order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "work order interrupted"})
}
