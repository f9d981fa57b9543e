package server

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/paperdesk/prefill/internal/export"
	"github.com/paperdesk/prefill/internal/prefill"
	"github.com/paperdesk/prefill/internal/repository"
)

// Prefiller runs the extraction pipeline over uploaded files.
type Prefiller interface {
	Prefill(ctx context.Context, paperPath, receiptPath string) (prefill.Record, error)
}

// Server wires the pipeline, the submission store, and the exporters behind
// the HTTP surface.
type Server struct {
	pre    Prefiller
	subs   *repository.SubmissionRepository
	csvLog *export.CSVLogger
	xlsx   *export.Service
	logger *slog.Logger
}

func New(pre Prefiller, subs *repository.SubmissionRepository, csvLog *export.CSVLogger, xlsx *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pre: pre, subs: subs, csvLog: csvLog, xlsx: xlsx, logger: logger}
}

// Router configures the Gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(s.logger))

	r.GET("/healthz", s.liveness)
	r.GET("/readyz", s.readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/prefill", s.prefillHandler)
	v1.POST("/submissions", s.createSubmission)
	v1.GET("/submissions", s.listSubmissions)
	v1.GET("/submissions/:id", s.getSubmission)
	// Separate group: a static sibling of :id would conflict in the router.
	v1.GET("/export/submissions.xlsx", s.exportXLSX)

	return r
}
