package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	applog "timeworth/internal/log"
	"timeworth/internal/services"
)

func (s *Server) handleListGoals(c *gin.Context) {
	goals, err := s.svc.Goals.List(c.Request.Context())
	if err != nil {
		s.respondError(c, applog.OpList, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// goalRequest takes the target date as YYYY-MM-DD or RFC 3339.
type goalRequest struct {
	Name          string  `json:"name"`
	Icon          string  `json:"icon"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	TargetDate    string  `json:"targetDate"`
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if !bindJSON(c, &req) {
		return
	}
	target, err := parseTime(req.TargetDate, s.loc)
	if err != nil {
		badRequest(c, "invalid targetDate: use YYYY-MM-DD or RFC 3339")
		return
	}

	g, err := s.svc.Goals.Create(c.Request.Context(), services.GoalInput{
		Name:          req.Name,
		Icon:          req.Icon,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    target,
	})
	if err != nil {
		s.respondError(c, applog.OpCreate, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// goalUpdateRequest edits a goal; absent fields are kept.
type goalUpdateRequest struct {
	Name         *string  `json:"name"`
	Icon         *string  `json:"icon"`
	TargetAmount *float64 `json:"targetAmount"`
	TargetDate   *string  `json:"targetDate"`
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var req goalUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.GoalUpdate{Name: req.Name, Icon: req.Icon, TargetAmount: req.TargetAmount}
	if req.TargetDate != nil {
		target, err := parseTime(*req.TargetDate, s.loc)
		if err != nil {
			badRequest(c, "invalid targetDate: use YYYY-MM-DD or RFC 3339")
			return
		}
		in.TargetDate = &target
	}

	g, err := s.svc.Goals.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.svc.Goals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, applog.OpDelete, err)
		return
	}
	c.Status(http.StatusNoContent)
}
