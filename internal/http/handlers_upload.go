package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"ghginventory/internal/core"
	applog "ghginventory/internal/log"
)

// handleUpload validates and processes an uploaded activity table. Only a
// fully processed upload replaces the active snapshot.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if r.ContentLength > s.opts.UploadMaxBytes {
		s.rejectUpload(w, http.StatusRequestEntityTooLarge, s.tooLargeMessage())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.UploadMaxBytes)

	upload, err := ReadUpload(r, UploadField, s.opts.UploadMaxBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.rejectUpload(w, http.StatusRequestEntityTooLarge, s.tooLargeMessage())
		case errors.Is(err, ErrNoUpload):
			s.rejectUpload(w, http.StatusBadRequest, "Upload failed. No file provided.")
		default:
			logger.WarnContext(ctx, "Unreadable upload",
				applog.FieldComponent, applog.ComponentHTTP,
				applog.FieldError, err.Error())
			s.rejectUpload(w, http.StatusBadRequest, "Upload failed. The request could not be read.")
		}
		return
	}

	logger.InfoContext(ctx, "Upload received",
		applog.NewFields().WithUpload(upload.Filename, upload.Size).WithOperation(applog.OpUpload).ToSlice()...)

	snap, err := s.processor.Process(ctx, upload.Filename, bytes.NewReader(upload.Data))
	if err != nil {
		var schemaErr *core.SchemaError
		if errors.As(err, &schemaErr) {
			applog.NewStructuredLogger(logger).LogUploadRejected(ctx, upload.Filename, schemaErr.Missing)
			s.rejectUpload(w, http.StatusUnprocessableEntity,
				"Upload failed. Missing columns: "+strings.Join(schemaErr.Missing, ", "))
			return
		}
		logger.WarnContext(ctx, "Upload could not be processed",
			applog.NewFields().WithUpload(upload.Filename, upload.Size).WithError(err).ToSlice()...)
		s.rejectUpload(w, http.StatusUnprocessableEntity, "Upload failed. "+err.Error())
		return
	}

	s.SetSnapshot(snap)
	s.appMetrics.uploads.Add(1)
	applog.NewStructuredLogger(logger).LogSummaryComputed(ctx, snap.ID, snap.Source, snap.Records, snap.Summary.Years())

	message := fmt.Sprintf("File '%s' uploaded and processed successfully.", upload.Filename)
	html, err := s.renderFragment("upload_status", uploadView{OK: true, Message: message, Preview: snap.Preview})
	if err != nil {
		s.templateError(r, "upload_status", err)
		html = `<div class="success" role="status">` + template.HTMLEscapeString(message) + `</div>`
	}
	htmlFragment(html).summaryUpdated(snap.ID).write(w)
}

func (s *Server) rejectUpload(w http.ResponseWriter, status int, message string) {
	s.appMetrics.uploadsRejected.Add(1)
	html, err := s.renderFragment("upload_status", uploadView{Message: message})
	if err != nil {
		errorFragment(status, message).write(w)
		return
	}
	htmlFragment(html).withStatus(status).write(w)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	errorFragment(http.StatusTooManyRequests, "Too many uploads. Please wait a minute and try again.").write(w)
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("Upload failed. File exceeds the %d byte limit.", s.opts.UploadMaxBytes)
}
