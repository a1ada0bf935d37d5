// Package security holds request screening, client IP resolution and
// response hardening for the dashboard.
package security

import (
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"sync/atomic"

	applog "ghginventory/internal/log"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
	BlockedRequests    int64
	InvalidIPAttempts  int64
}

// Finding reasons reported by Inspect.
const (
	ReasonProbePath  = "probe_path"
	ReasonProbeQuery = "probe_query"
	ReasonScanner    = "scanner_agent"
	ReasonMethod     = "unusual_method"
	ReasonLongURL    = "long_url"
	ReasonProxyChain = "proxy_chain"
)

const (
	maxURLLength     = 2048
	maxForwardedHops = 5
)

var (
	probePatterns = []string{
		"../", "..\\", "%2e%2e", ".env", ".git", ".ssh",
		"wp-admin", "wp-login", "phpmyadmin", "admin.php", "config.php",
		"etc/passwd", "cmd.exe", "<script", "javascript:", "union select",
	}
	scannerAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab",
	}
	unusualMethods = map[string]struct{}{
		"TRACE": {}, "TRACK": {}, "DEBUG": {}, "CONNECT": {},
	}
	// Reasons that are refused outright rather than only counted.
	blockingReasons = map[string]struct{}{
		ReasonProbePath: {}, ReasonScanner: {}, ReasonMethod: {},
	}
)

// Detector handles suspicious request detection
type Detector struct {
	suspicious     atomic.Int64
	blocked        atomic.Int64
	invalidIP      atomic.Int64
	trustedProxies []netip.Prefix
}

// NewDetector creates a detector that trusts loopback and private networks
// as reverse proxies.
func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []netip.Prefix{
			netip.MustParsePrefix("127.0.0.0/8"),
			netip.MustParsePrefix("::1/128"),
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("172.16.0.0/12"),
			netip.MustParsePrefix("192.168.0.0/16"),
		},
	}
}

// Inspect returns the reasons r looks hostile, or nil.
func (d *Detector) Inspect(r *http.Request) []string {
	var reasons []string

	path := strings.ToLower(r.URL.Path)
	query, err := url.QueryUnescape(r.URL.RawQuery)
	if err != nil {
		query = r.URL.RawQuery
	}
	query = strings.ToLower(query)
	if containsAny(path, probePatterns) {
		reasons = append(reasons, ReasonProbePath)
	}
	if containsAny(query, probePatterns) {
		reasons = append(reasons, ReasonProbeQuery)
	}
	if containsAny(strings.ToLower(r.Header.Get("User-Agent")), scannerAgents) {
		reasons = append(reasons, ReasonScanner)
	}
	if _, ok := unusualMethods[r.Method]; ok {
		reasons = append(reasons, ReasonMethod)
	}
	if len(r.URL.String()) > maxURLLength {
		reasons = append(reasons, ReasonLongURL)
	}
	if strings.Count(r.Header.Get("X-Forwarded-For"), ",") > maxForwardedHops {
		reasons = append(reasons, ReasonProxyChain)
	}

	if len(reasons) > 0 {
		d.suspicious.Add(1)
	}
	return reasons
}

// DetectSuspiciousRequest reports whether Inspect found anything.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	return len(d.Inspect(r)) > 0
}

// Middleware logs suspicious requests and refuses the ones carrying a
// blocking reason with 400.
func (d *Detector) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reasons := d.Inspect(r)
			if len(reasons) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			block := false
			for _, reason := range reasons {
				if _, ok := blockingReasons[reason]; ok {
					block = true
					break
				}
			}

			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				applog.FieldComponent, applog.ComponentSecurity,
				applog.FieldClientIP, extractIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				"reasons", reasons,
				"blocked", block)

			if block {
				d.blocked.Add(1)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractClientIP returns the peer address, or the first forwarded address
// when the peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	peer, err := netip.ParseAddrPort(r.RemoteAddr)
	var direct netip.Addr
	if err == nil {
		direct = peer.Addr()
	} else if a, aerr := netip.ParseAddr(r.RemoteAddr); aerr == nil {
		direct = a
	} else {
		d.invalidIP.Add(1)
		return r.RemoteAddr
	}
	direct = direct.Unmap()

	if d.isTrustedProxy(direct) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if a, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
				return a.String()
			}
			d.invalidIP.Add(1)
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			if a, err := netip.ParseAddr(xri); err == nil {
				return a.String()
			}
			d.invalidIP.Add(1)
		}
	}

	return direct.String()
}

func (d *Detector) isTrustedProxy(ip netip.Addr) bool {
	for _, p := range d.trustedProxies {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: d.suspicious.Load(),
		BlockedRequests:    d.blocked.Load(),
		InvalidIPAttempts:  d.invalidIP.Load(),
	}
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, p.Masked())
	return nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
