package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	applog "ghginventory/internal/log"
	"ghginventory/internal/report"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).String(),
	})
}

// handleReady reports whether the dashboard can render pages.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if snap := s.Snapshot(); snap != nil {
		checks["summary"] = map[string]any{
			"id":      snap.ID,
			"source":  snap.Source,
			"records": snap.Records,
		}
	} else {
		checks["summary"] = "empty"
	}

	stats := s.charts.Stats()
	checks["chart_cache"] = map[string]any{
		"entries":   stats.Size,
		"hit_ratio": stats.HitRatio(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	cacheStats := s.charts.Stats()

	w.WriteHeader(http.StatusOK)
	metric := func(name, help, kind string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_client_errors_total", "HTTP responses with a 4xx status", "counter", traceMetrics.ClientErrors)
	metric("http_server_errors_total", "HTTP responses with a 5xx status", "counter", traceMetrics.ServerErrors)
	metric("http_response_time_microseconds_avg", "Mean response time", "gauge", traceMetrics.AverageResponseTime)
	metric("uploads_total", "Uploads processed successfully", "counter", s.appMetrics.uploads.Load())
	metric("uploads_rejected_total", "Uploads rejected by validation", "counter", s.appMetrics.uploadsRejected.Load())
	metric("chart_renders_total", "Charts rendered (cache misses)", "counter", s.appMetrics.chartRenders.Load())
	metric("bundle_downloads_total", "Report bundles served", "counter", s.appMetrics.downloads.Load())
	metric("chart_cache_hits_total", "Chart cache hits", "counter", cacheStats.Hits)
	metric("chart_cache_misses_total", "Chart cache misses", "counter", cacheStats.Misses)
	metric("chart_cache_entries", "Current chart cache entries", "gauge", cacheStats.Size)
	metric("rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests)
	metric("blocked_requests_total", "Suspicious requests refused", "counter", securityMetrics.BlockedRequests)
	metric("uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.appMetrics.started).Seconds()))
}

// handleIndex renders the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := pageView{
		Title:    s.opts.Title,
		MaxBytes: s.opts.UploadMaxBytes,
		Summary:  newSummaryView(s.Snapshot()),
	}
	html, err := s.renderFragment("dashboard.html", page)
	if err != nil {
		s.templateError(r, "dashboard.html", err)
		errorFragment(http.StatusInternalServerError, "Dashboard unavailable").write(w)
		return
	}
	htmlFragment(html).write(w)
}

// handleSummaryPartial renders the charts and yearly table.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderFragment("summary", newSummaryView(s.Snapshot()))
	if err != nil {
		s.templateError(r, "summary", err)
		errorFragment(http.StatusInternalServerError, "Summary unavailable").write(w)
		return
	}
	htmlFragment(html).write(w)
}

// handleChart serves one chart of the active snapshot as PNG, rendering it
// at most once per snapshot.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseChartKind(r)
	if !ok {
		errorFragment(http.StatusNotFound, "Unknown chart").write(w)
		return
	}
	snap := s.Snapshot()
	if snap == nil {
		errorFragment(http.StatusNotFound, "No summary available").write(w)
		return
	}

	png, err := s.charts.GetOrCompute(snap.ID+"/"+string(kind), func() ([]byte, error) {
		var buf bytes.Buffer
		if err := report.RenderChart(&buf, kind, snap.Summary); err != nil {
			return nil, err
		}
		s.appMetrics.chartRenders.Add(1)
		return buf.Bytes(), nil
	})
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Chart rendering failed", err, applog.ComponentReport, applog.OpRender,
			applog.NewFields().WithSummary(snap.ID, snap.Source, snap.Records, nil))
		errorFragment(http.StatusInternalServerError, "Chart unavailable").write(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleAPISummary returns the active snapshot as JSON.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summary available"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleDownload streams processed_reports.zip for the active summary.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if snap == nil {
		errorFragment(http.StatusNotFound, "No summary available. Upload an activity file first.").write(w)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteBundle(r.Context(), &buf, snap.Summary, s.opts.Title); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Report bundle failed", err, applog.ComponentReport, applog.OpExport,
			applog.NewFields().WithSummary(snap.ID, snap.Source, snap.Records, nil))
		errorFragment(http.StatusInternalServerError, "Report bundle unavailable").write(w)
		return
	}

	s.appMetrics.downloads.Add(1)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.BundleName+`"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) templateError(r *http.Request, name string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
		applog.FieldComponent, applog.ComponentTemplate,
		applog.FieldError, err.Error(),
		"template", name,
		applog.FieldErrorType, applog.ErrorTypeInternal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

