package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	applog "timeworth/internal/log"
)

const (
	defaultSavingsMonths = 12
	defaultProjectYears  = 20
)

// respond writes v or maps err.
func respond[T any](s *Server, c *gin.Context, v T, err error) {
	if err != nil {
		s.respondError(c, applog.OpRead, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleSummary(c *gin.Context) {
	v, err := s.svc.Analytics.Summary(c.Request.Context())
	respond(s, c, v, err)
}

func (s *Server) handleMonthly(c *gin.Context) {
	v, err := s.svc.Analytics.Monthly(c.Request.Context())
	respond(s, c, gin.H{"months": v}, err)
}

func (s *Server) handleYearly(c *gin.Context) {
	v, err := s.svc.Analytics.Yearly(c.Request.Context())
	respond(s, c, gin.H{"years": v}, err)
}

func (s *Server) handleCategories(c *gin.Context) {
	v, err := s.svc.Analytics.Categories(c.Request.Context())
	respond(s, c, gin.H{"categories": v}, err)
}

func (s *Server) handleWeekdays(c *gin.Context) {
	v, err := s.svc.Analytics.Weekdays(c.Request.Context())
	respond(s, c, v, err)
}

func (s *Server) handleWeek(c *gin.Context) {
	v, err := s.svc.Analytics.Week(c.Request.Context())
	respond(s, c, v, err)
}

func (s *Server) handleYearOverYear(c *gin.Context) {
	v, err := s.svc.Analytics.YearOverYear(c.Request.Context())
	respond(s, c, v, err)
}

// handleRange requires ?start= and ?end=.
func (s *Server) handleRange(c *gin.Context) {
	start, err := s.queryTime(c, "start")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	end, err := s.queryTime(c, "end")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if start.IsZero() || end.IsZero() {
		badRequest(c, "start and end are required")
		return
	}
	v, err := s.svc.Analytics.Range(c.Request.Context(), start, end)
	respond(s, c, v, err)
}

func (s *Server) handleSavings(c *gin.Context) {
	months, err := queryInt(c, "months", defaultSavingsMonths)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	v, err := s.svc.Analytics.Savings(c.Request.Context(), months)
	respond(s, c, gin.H{"months": v}, err)
}

// handleProjection takes ?years= and an optional ?rate= overriding settings.
func (s *Server) handleProjection(c *gin.Context) {
	years, err := queryInt(c, "years", defaultProjectYears)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rate, err := queryFloat(c, "rate")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	v, err := s.svc.Analytics.Projection(c.Request.Context(), years, rate)
	respond(s, c, v, err)
}
