package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghginventory/internal/report"
)

// UploadField is the multipart field carrying the activity table.
const UploadField = "file"

// ErrNoUpload is returned when the request carries no file.
var ErrNoUpload = errors.New("no file provided")

// Upload is a file received from the dashboard form.
type Upload struct {
	Filename string
	Size     int64
	Data     []byte
}

// ReadUpload reads the multipart file in field. The body must already be
// capped with http.MaxBytesReader; an oversized body surfaces as
// *http.MaxBytesError.
func ReadUpload(r *http.Request, field string, maxMemory int64) (*Upload, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, tooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return nil, ErrNoUpload
		}
		return nil, fmt.Errorf("parse upload: %w", err)
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoUpload
		}
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &Upload{
		Filename: sanitizeFilename(hdr.Filename),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// ParseChartKind reads the {kind} route parameter.
func ParseChartKind(r *http.Request) (report.ChartKind, bool) {
	k := report.ChartKind(chi.URLParam(r, "kind"))
	return k, k.Valid()
}
