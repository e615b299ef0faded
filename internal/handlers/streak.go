package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mcha311/rehab-backend/internal/apierror"
	"github.com/mcha311/rehab-backend/internal/middleware"
	"github.com/mcha311/rehab-backend/internal/service"
)

const (
	defaultRangeDays = 7
	maxRangeDays     = 90
)

type StreakHandler struct {
	streakService service.StreakService
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(streakService service.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

// GetStreak handles GET /api/v1/streak?range_days=N
func (h *StreakHandler) GetStreak(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	rangeDays := defaultRangeDays
	if raw := c.Query("range_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"range_days must be an integer", "Invalid range_days parameter"))
			return
		}
		rangeDays = parsed
	}
	// Clamp rather than reject, so older clients asking for a season of
	// history still get a valid response.
	if rangeDays < 1 {
		rangeDays = 1
	}
	if rangeDays > maxRangeDays {
		rangeDays = maxRangeDays
	}

	resp, err := h.streakService.GetStreak(c.Request.Context(), userID, rangeDays)
	if err != nil {
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStreakSimple handles GET /api/v1/streak/simple, the cached
// home-screen variant without activity history.
func (h *StreakHandler) GetStreakSimple(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return
	}

	resp, err := h.streakService.GetStreakSimple(c.Request.Context(), userID)
	if err != nil {
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}
	c.JSON(http.StatusOK, resp)
}
