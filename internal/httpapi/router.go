package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the handlers' dependencies.
type Server struct {
	q        *query.Queries
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	readers  map[domain.Kind]reader
}

// NewServer builds the HTTP surface over the query cache. gatherer backs
// /metrics and may be nil.
func NewServer(q *query.Queries, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if gatherer == nil {
		gatherer = prometheus.NewRegistry()
	}
	return &Server{q: q, gatherer: gatherer, logger: logger, readers: readers(q)}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.recover))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/reports/pdf", s.allReportsPDF)
	api.GET("/reports/excel", s.allReportsExcel)
	api.GET("/reports/:id/pdf", s.reportPDF)
	api.GET("/reports/:id/excel", s.reportExcel)
	api.GET("/proposals/:id/pdf", s.proposalPDF)
	api.GET("/estimates/:id/export/pdf", s.estimatePDF)
	api.GET("/estimates/:id/export/excel", s.estimateExcel)
	api.GET("/payrolls/:id/export/pdf", s.payrollPDF)
	api.GET("/purchase-orders/:id/pdf", s.purchaseOrderPDF)
	api.GET("/expenses/:id/pdf", s.expensePDF)

	v1 := api.Group("/v1")
	v1.GET("/:kind", s.list)
	v1.GET("/:kind/:id", s.get)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) recover(c *gin.Context, rec any) {
	s.logger.Error("http_panic", "path", c.Request.URL.Path, "panic", rec)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// fail maps domain errors onto status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsTransient(err):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errUnknownKind):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("http_error", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
