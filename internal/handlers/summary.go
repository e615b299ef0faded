package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcha311/rehab-backend/internal/apierror"
	"github.com/mcha311/rehab-backend/internal/middleware"
	"github.com/mcha311/rehab-backend/internal/models"
	"github.com/mcha311/rehab-backend/internal/repository"
	"github.com/mcha311/rehab-backend/internal/service"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a new daily summary handler
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// GetDailySummary handles GET /api/v1/daily-summary?date=YYYY-MM-DD
// Date defaults to today.
func (h *SummaryHandler) GetDailySummary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	date := models.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewInvalidDateError(apierror.GetRequestID(c), "date", raw))
			return
		}
		date = parsed
	}

	summary, err := h.summaryService.GetDailySummary(c.Request.Context(), userID, date)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		if errors.Is(err, repository.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewSummaryNotFoundError(requestID, date.Format(models.DateLayout)))
			return
		}
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, models.NewDailySummaryResponse(summary))
}

// RecomputeDailySummary handles POST /api/v1/daily-summary/recompute
// The summary is recomputed synchronously; the streak side effect is
// applied asynchronously, so the response is 202.
func (h *SummaryHandler) RecomputeDailySummary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	var req models.RecomputeSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c), err.Error(), "Invalid recompute payload"))
		return
	}

	if err := h.summaryService.RecomputeDailySummary(c.Request.Context(), userID, req.Timestamp); err != nil {
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"date":   models.Day(req.Timestamp).Format(models.DateLayout),
	})
}
