package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpreview/internal/logging"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/render"
	"github.com/goliatone/go-formpreview/pkg/schema"
)

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), s.metrics.Middleware())

	router.GET("/", s.handlePage)
	router.POST("/", s.handleSubmit)
	router.GET("/p/:variant", s.handlePage)
	router.POST("/p/:variant", s.handleSubmit)
	router.GET(LiveEndpoint, s.handleLive)
	router.GET("/healthz", s.handleHealth)
	router.StaticFS(s.cfg.Server.RuntimePrefix, runtimeAssets())

	if s.cfg.Server.Metrics {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return router
}

func (s *Server) handlePage(c *gin.Context) {
	entry, ok := s.lookup(c.Param("variant"))
	if !ok {
		c.String(http.StatusNotFound, "unknown page variant %q", c.Param("variant"))
		return
	}

	defaults := entry.page.Defaults()
	s.writePage(c, http.StatusOK, entry.page, defaults, defaults, model.Errors{}, nil)
}

// handleSubmit is the no-script fallback: the whole form is validated like a
// live change and re-rendered with either the committed values or the
// field errors.
func (s *Server) handleSubmit(c *gin.Context) {
	entry, ok := s.lookup(c.Param("variant"))
	if !ok {
		c.String(http.StatusNotFound, "unknown page variant %q", c.Param("variant"))
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form submission")
		return
	}

	page := entry.page
	submitted := render.ParseSubmission(page, page.Defaults(), c.Request.PostForm)
	committed, err := entry.validator.Validate(submitted)
	if err != nil {
		verr, ok := schema.AsValidationError(err)
		if !ok {
			logging.Error("Validation failed", zap.String("variant", page.Variant), zap.Error(err))
			c.String(http.StatusInternalServerError, "validation unavailable")
			return
		}
		mapping := render.MapFieldErrors(page, verr.Fields)
		formErrs := render.MergeFormErrors(mapping.Form, verr.Form...)
		s.metrics.FieldChange(page.Variant, "*", "rejected")
		s.writePage(c, http.StatusUnprocessableEntity, page, submitted, page.Defaults(), mapping.Fields, formErrs)
		return
	}
	if committed == nil {
		committed = submitted
	}
	s.metrics.FieldChange(page.Variant, "*", "committed")
	s.writePage(c, http.StatusOK, page, committed, committed, model.Errors{}, nil)
}

func (s *Server) writePage(c *gin.Context, status int, page model.Page, shown, committed model.Values, errs model.Errors, formErrs []string) {
	body, err := s.renderHost(c.Request.Context(), page, shown, committed, errs, formErrs)
	if err != nil {
		logging.Error("Page render failed", zap.String("variant", page.Variant), zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, s.renderer.ContentType(), body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"variants": s.Variants(),
	})
}
