package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timeworth/internal/core"
	applog "timeworth/internal/log"
	"timeworth/internal/services"
)

func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.svc.Profile.GetProfile(c.Request.Context())
	if err != nil {
		s.respondError(c, applog.OpRead, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleSaveProfile(c *gin.Context) {
	var in services.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := s.svc.Profile.SaveProfile(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateWage(c *gin.Context) {
	var w core.Wage
	if !bindJSON(c, &w) {
		return
	}
	p, err := s.svc.Profile.UpdateWage(c.Request.Context(), w)
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	settings, err := s.svc.Profile.GetSettings(c.Request.Context())
	if err != nil {
		s.respondError(c, applog.OpRead, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var in core.Settings
	if !bindJSON(c, &in) {
		return
	}
	settings, err := s.svc.Profile.UpdateSettings(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, applog.OpUpdate, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// handleHours prices ?price= in hours of work.
func (s *Server) handleHours(c *gin.Context) {
	price, err := queryFloat(c, "price")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if price == nil {
		badRequest(c, "price is required")
		return
	}
	q, err := s.svc.Profile.HoursFor(c.Request.Context(), *price)
	if err != nil {
		s.respondError(c, applog.OpRead, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
