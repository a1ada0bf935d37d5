package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: "app", Handler: NewHandler(&buf, "json", slog.LevelDebug)})
	l.WithComponent(ComponentReport).Info("rendered", FieldChart, "sector")

	m := decode(t, &buf)
	if m["component"] != ComponentReport {
		t.Fatalf("component = %v", m["component"])
	}
	if m[FieldChart] != "sector" {
		t.Fatalf("chart = %v", m[FieldChart])
	}
}

func TestLogSummaryComputed(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Handler: NewHandler(&buf, "json", slog.LevelInfo)}))
	sl.LogSummaryComputed(context.Background(), "01ABC", "upload:data.csv", 168, []int{2015, 2016, 2021})

	m := decode(t, &buf)
	if m[FieldSummaryID] != "01ABC" || m[FieldSource] != "upload:data.csv" {
		t.Fatalf("unexpected fields: %v", m)
	}
	if m[FieldFirstYear] != float64(2015) || m[FieldLastYear] != float64(2021) {
		t.Fatalf("unexpected year range: %v", m)
	}
}

func TestLogErrorIncludesOperation(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Handler: NewHandler(&buf, "json", slog.LevelInfo)}))
	sl.LogError(context.Background(), "export failed", errors.New("disk full"), ComponentReport, OpExport, NewFields())

	m := decode(t, &buf)
	if m[FieldError] != "disk full" || m[FieldOperation] != OpExport {
		t.Fatalf("unexpected fields: %v", m)
	}
}

func TestComponentMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Component: "http", Handler: NewHandler(&buf, "text", slog.LevelInfo)}).
		With(FieldRequestID, "req_1")

	var got *Logger
	h := ComponentMiddleware(ComponentInventory)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(WithContext(req.Context(), base)))

	if got == nil || got.Component() != ComponentInventory {
		t.Fatalf("logger not retagged: %+v", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte("request_id=req_1")) {
		t.Fatalf("request id missing from %q", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected default logger %+v", l)
	}
}
