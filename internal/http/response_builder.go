// Package http serves the inventory dashboard.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// EventSummaryUpdated is the HX-Trigger event fired after a successful upload.
// The summary section listens for it on body and reloads /ui/summary.
const EventSummaryUpdated = "summary:updated"

// fragment is an HTML partial plus the HTMX events to fire alongside it.
type fragment struct {
	status   int
	body     string
	triggers map[string]any
}

func htmlFragment(body string) *fragment {
	return &fragment{status: http.StatusOK, body: body}
}

// errorFragment renders message escaped inside an alert div.
func errorFragment(status int, message string) *fragment {
	return htmlFragment(`<div class="error" role="alert">` + template.HTMLEscapeString(message) + `</div>`).
		withStatus(status)
}

func (f *fragment) withStatus(code int) *fragment {
	f.status = code
	return f
}

func (f *fragment) trigger(event string, detail any) *fragment {
	if f.triggers == nil {
		f.triggers = make(map[string]any)
	}
	f.triggers[event] = detail
	return f
}

func (f *fragment) summaryUpdated(snapshotID string) *fragment {
	return f.trigger(EventSummaryUpdated, map[string]string{"id": snapshotID})
}

func (f *fragment) write(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if len(f.triggers) > 0 {
		if b, err := json.Marshal(f.triggers); err == nil {
			h.Set("HX-Trigger", string(b))
		}
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}
