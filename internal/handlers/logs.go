package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcha311/rehab-backend/internal/apierror"
	"github.com/mcha311/rehab-backend/internal/middleware"
	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/service"
)

type LogsHandler struct {
	logService service.ActivityLogService
}

// NewLogsHandler creates a new activity log handler
func NewLogsHandler(logService service.ActivityLogService) *LogsHandler {
	return &LogsHandler{
		logService: logService,
	}
}

// CreateExerciseLog handles POST /api/v1/exercise-logs
func (h *LogsHandler) CreateExerciseLog(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	var req models.CreateExerciseLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid exercise log payload"))
		return
	}

	created, err := h.logService.CreateExerciseLog(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateMedicationLog handles POST /api/v1/medication-logs
func (h *LogsHandler) CreateMedicationLog(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	var req models.CreateMedicationLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid medication log payload"))
		return
	}

	created, err := h.logService.CreateMedicationLog(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateDietLog handles POST /api/v1/diet-logs
func (h *LogsHandler) CreateDietLog(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	var req models.CreateDietLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid diet log payload"))
		return
	}

	created, err := h.logService.CreateDietLog(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LogsHandler) writeLogError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)
	if errors.Is(err, service.ErrNoActivePlan) {
		apierror.WriteProblem(c, apierror.NewNoActivePlanError(requestID))
		return
	}
	apierror.WriteProblem(c, apierror.NewInternalError(requestID))
}
