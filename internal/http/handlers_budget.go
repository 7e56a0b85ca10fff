package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timeworth/internal/budget"
	applog "timeworth/internal/log"
	"timeworth/internal/services"
)

// budgetStatus is the wire form of an evaluation.
type budgetStatus struct {
	budget.Evaluation
	Remaining  float64 `json:"remaining"`
	ExceededBy float64 `json:"exceededBy"`
}

func (s *Server) handleListBudgets(c *gin.Context) {
	budgets, err := s.svc.Budgets.List(c.Request.Context())
	if err != nil {
		s.respondError(c, applog.OpList, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

func (s *Server) handleCreateBudget(c *gin.Context) {
	var in services.BudgetInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := s.svc.Budgets.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, applog.OpCreate, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (s *Server) handleUpdateBudget(c *gin.Context) {
	var in services.BudgetInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := s.svc.Budgets.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleToggleBudget(c *gin.Context) {
	b, err := s.svc.Budgets.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(c *gin.Context) {
	if err := s.svc.Budgets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, applog.OpDelete, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleBudgetStatus(c *gin.Context) {
	evals, err := s.svc.Budgets.Current(c.Request.Context())
	if err != nil {
		s.respondError(c, applog.OpEvaluate, err)
		return
	}
	out := make([]budgetStatus, 0, len(evals))
	for _, e := range evals {
		out = append(out, budgetStatus{Evaluation: e, Remaining: e.Remaining(), ExceededBy: e.ExceededBy()})
	}
	c.JSON(http.StatusOK, gin.H{"budgets": out})
}
