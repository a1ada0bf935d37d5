package http

import (
	"bytes"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ghginventory/internal/core"
	"ghginventory/internal/report"
)

type chartView struct {
	Kind  string
	Title string
	URL   string
}

type yearRow struct {
	Year      int
	Emissions string
	Change    string
}

type summaryView struct {
	Ready     bool
	ID        string
	Source    string
	CreatedAt string
	Records   int
	Sectors   []string
	Gases     []string
	Charts    []chartView
	Yearly    []yearRow
}

type uploadView struct {
	OK      bool
	Message string
	Preview *core.Preview
}

type pageView struct {
	Title    string
	MaxBytes int64
	Summary  summaryView
	Upload   *uploadView
}

func newSummaryView(snap *core.Snapshot) summaryView {
	if snap == nil {
		return summaryView{}
	}
	v := summaryView{
		Ready:     true,
		ID:        snap.ID,
		Source:    filepath.Base(snap.Source),
		CreatedAt: snap.CreatedAt.UTC().Format(time.RFC3339),
		Records:   snap.Records,
		Sectors:   snap.Summary.Sectors(),
		Gases:     snap.Summary.Gases(),
	}
	for _, k := range report.ChartKinds {
		v.Charts = append(v.Charts, chartView{
			Kind:  string(k),
			Title: k.Title(),
			URL:   "/charts/" + string(k) + ".png?v=" + snap.ID,
		})
	}
	for _, y := range snap.Summary.Yearly {
		v.Yearly = append(v.Yearly, yearRow{
			Year:      y.Year,
			Emissions: core.FormatKg(y.EmissionsKg),
			Change:    formatPct(y.ChangePct),
		})
	}
	return v
}

// formatPct renders a percent change with two decimals, e.g. "-25.00".
func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// sanitizeFilename keeps the base name of an uploaded file and strips
// control characters so it can be echoed back and logged.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "upload.csv"
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

var errTemplatesNotLoaded = errors.New("templates not loaded")

func (s *Server) renderFragment(name string, data any) (string, error) {
	if s.templates == nil {
		return "", errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
