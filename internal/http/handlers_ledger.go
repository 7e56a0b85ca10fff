package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timeworth/internal/core"
	applog "timeworth/internal/log"
	"timeworth/internal/services"
)

// handleListTransactions supports ?type=, ?category=, ?start=, ?end=, ?q= and
// ?limit=. A date-only end includes that whole day.
func (s *Server) handleListTransactions(c *gin.Context) {
	f := services.TransactionFilter{
		Type:     core.TransactionType(c.Query("type")),
		Category: core.Category(c.Query("category")),
		Query:    c.Query("q"),
	}
	if f.Type != "" && !f.Type.IsValid() {
		badRequest(c, core.ErrInvalidType.Error())
		return
	}

	var err error
	if f.Start, err = s.queryTime(c, "start"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.End, err = s.queryEndTime(c, "end"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.Limit, err = queryInt(c, "limit", 0); err != nil || f.Limit < 0 {
		badRequest(c, "limit must be a non-negative integer")
		return
	}

	history, err := s.svc.Ledger.History(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, applog.OpList, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) handleRecordTransaction(c *gin.Context) {
	var in core.NewTransaction
	if !bindJSON(c, &in) {
		return
	}
	res, err := s.svc.Ledger.Record(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, applog.OpRecord, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	if err := s.svc.Ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, applog.OpDelete, err)
		return
	}
	c.Status(http.StatusNoContent)
}
