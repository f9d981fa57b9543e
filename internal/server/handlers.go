package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paperdesk/prefill/constants"
	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/prefill"
)

// liveness handles GET /healthz
func (s *Server) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readiness handles GET /readyz
func (s *Server) readiness(c *gin.Context) {
	if err := s.subs.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// prefillHandler handles POST /api/v1/prefill. It accepts a multipart form
// with optional "paper" (PDF) and "receipt" (JPG/PNG) files, at least one of
// them present, and returns the merged prefill record.
func (s *Server) prefillHandler(c *gin.Context) {
	paperFile, paperErr := c.FormFile("paper")
	receiptFile, receiptErr := c.FormFile("receipt")
	if paperErr != nil && receiptErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of paper or receipt is required"})
		return
	}

	if paperFile != nil {
		if _, ok := constants.AllowedPaperExtensions[ext(paperFile)]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paper must be a PDF"})
			return
		}
	}
	if receiptFile != nil {
		if _, ok := constants.AllowedReceiptExtensions[ext(receiptFile)]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receipt must be a JPG or PNG image"})
			return
		}
	}

	scratch, err := os.MkdirTemp("", "prefill-upload-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not stage upload"})
		return
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	var paperPath, receiptPath string
	if paperFile != nil {
		paperPath = filepath.Join(scratch, "paper."+ext(paperFile))
		if err := c.SaveUploadedFile(paperFile, paperPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not stage paper"})
			return
		}
	}
	if receiptFile != nil {
		receiptPath = filepath.Join(scratch, "receipt."+ext(receiptFile))
		if err := c.SaveUploadedFile(receiptFile, receiptPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not stage receipt"})
			return
		}
	}

	rec, err := s.pre.Prefill(c.Request.Context(), paperPath, receiptPath)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, common.ErrImageDecode) || errors.Is(err, common.ErrMalformedDocument) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// createSubmission handles POST /api/v1/submissions. The body is a reviewed
// prefill record; it must pass schema validation before it is stored.
func (s *Server) createSubmission(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}

	if err := prefill.ValidateSubmissionJSON(body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var rec prefill.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	sub, err := s.subs.Create(c.Request.Context(), rec)
	if err != nil {
		s.logger.Error("submission.create.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store submission"})
		return
	}

	// The CSV log is an audit convenience; failure to append never fails
	// the submission.
	if s.csvLog != nil {
		if err := s.csvLog.Append(sub); err != nil {
			s.logger.Warn("submission.csv_append.failed", "id", sub.ID, "error", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID, "created_at": sub.CreatedAt})
}

// listSubmissions handles GET /api/v1/submissions
func (s *Server) listSubmissions(c *gin.Context) {
	subs, err := s.subs.List(c.Request.Context())
	if err != nil {
		s.logger.Error("submission.list.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "count": len(subs)})
}

// getSubmission handles GET /api/v1/submissions/:id
func (s *Server) getSubmission(c *gin.Context) {
	sub, err := s.subs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		s.logger.Error("submission.get.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load submission"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// exportXLSX handles GET /api/v1/export/submissions.xlsx
func (s *Server) exportXLSX(c *gin.Context) {
	data, err := s.xlsx.ExportSubmissionsXLSX(c.Request.Context())
	if err != nil {
		s.logger.Error("submission.export.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build export"})
		return
	}
	name := fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func ext(fh *multipart.FileHeader) string {
	return constants.NormalizeExt(filepath.Ext(fh.Filename))
}
