package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/presentation/http/dto/request"
	"github.com/primake/primake-api/internal/presentation/http/dto/response"
)

// GoalHandler handles sales goals and commission
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// Commission returns the caller's commission card for ?period=YYYY-MM
func (h *GoalHandler) Commission(c *gin.Context) {
	summary, err := h.goalService.CommissionSummary(c.Request.Context(), commissionViewer(c), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission retrieved successfully", summary)
}

// List returns every sales user's target for ?period=YYYY-MM
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goalService.GetGoals(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goals retrieved successfully", goals)
}

// Save stores a user's target
func (h *GoalHandler) Save(c *gin.Context) {
	var req request.SaveGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	goal, err := h.goalService.SaveUserGoal(c.Request.Context(), &service.SaveGoalInput{
		UserID: req.UserID,
		Amount: req.Amount,
		Type:   req.Type,
		Period: req.Period,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goal saved successfully", goal)
}

// Progress compares achieved revenue with the targets
func (h *GoalHandler) Progress(c *gin.Context) {
	progress, err := h.goalService.GoalProgress(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goal progress retrieved successfully", progress)
}
