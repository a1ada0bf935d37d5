package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFragmentWrite(t *testing.T) {
	w := httptest.NewRecorder()
	htmlFragment("<p>ok</p>").withStatus(http.StatusCreated).write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Body.String() != "<p>ok</p>" {
		t.Errorf("body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger set without triggers")
	}
}

func TestFragmentSummaryUpdated(t *testing.T) {
	w := httptest.NewRecorder()
	htmlFragment("").summaryUpdated("01HXYZ").trigger("upload:done", true).write(w)

	var triggers map[string]any
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	detail, ok := triggers[EventSummaryUpdated].(map[string]any)
	if !ok || detail["id"] != "01HXYZ" {
		t.Errorf("%s detail = %v", EventSummaryUpdated, triggers[EventSummaryUpdated])
	}
	if triggers["upload:done"] != true {
		t.Errorf("upload:done = %v", triggers["upload:done"])
	}
}

func TestErrorFragmentEscapes(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusTooManyRequests, http.StatusNotFound} {
		w := httptest.NewRecorder()
		errorFragment(status, "Missing columns: <Gas>").write(w)

		if w.Code != status {
			t.Errorf("status = %d, want %d", w.Code, status)
		}
		body := w.Body.String()
		if !strings.Contains(body, `class="error"`) || !strings.Contains(body, "&lt;Gas&gt;") {
			t.Errorf("unexpected body for %d: %s", status, body)
		}
	}
}
