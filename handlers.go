package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/site-auditor/backend/analyzer"
	"github.com/site-auditor/backend/middleware"
	"github.com/site-auditor/backend/stats"
)

const (
	auditTimeout    = 2 * time.Minute
	analyzerTimeout = time.Minute
)

var apiEndpoints = []string{
	"/api/audit",
	"/api/speed",
	"/api/meta",
	"/api/links",
	"/api/robots",
	"/api/headers",
	"/api/statistics",
}

type server struct {
	audit *analyzer.Analyzer
	stats *stats.Storage
	log   *zap.Logger
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"endpoints": apiEndpoints,
	})
}

func (s *server) handleAudit(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: a url field is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), auditTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.audit.RunAudit(ctx, request.URL)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("audit failed",
			zap.String("url", request.URL),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit URL: " + err.Error()})
		return
	}

	s.stats.RecordAudit(time.Since(start), len(report.Errors))

	c.JSON(http.StatusOK, report)
}

func (s *server) handleSpeed(c *gin.Context) {
	s.runAnalyzer(c, func(ctx context.Context, url string) (any, error) {
		return s.audit.AnalyzeSpeed(ctx, url)
	})
}

func (s *server) handleMeta(c *gin.Context) {
	s.runAnalyzer(c, func(ctx context.Context, url string) (any, error) {
		items, err := s.audit.AnalyzeMeta(ctx, url)
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items}, nil
	})
}

func (s *server) handleLinks(c *gin.Context) {
	s.runAnalyzer(c, func(ctx context.Context, url string) (any, error) {
		return s.audit.AnalyzeLinks(ctx, url)
	})
}

func (s *server) handleRobots(c *gin.Context) {
	s.runAnalyzer(c, func(ctx context.Context, url string) (any, error) {
		return s.audit.AnalyzeRobots(ctx, url)
	})
}

func (s *server) handleHeaders(c *gin.Context) {
	s.runAnalyzer(c, func(ctx context.Context, url string) (any, error) {
		return s.audit.AnalyzeHeaders(ctx, url)
	})
}

func (s *server) handleStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current": s.stats.GetCurrentStats(),
		"months":  s.stats.GetAllMonths(),
	})
}

// runAnalyzer handles the shared query-parameter contract of the
// single-analyzer endpoints.
func (s *server) runAnalyzer(c *gin.Context, run func(context.Context, string) (any, error)) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: url"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzerTimeout)
	defer cancel()

	result, err := run(ctx, url)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
