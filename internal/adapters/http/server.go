package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"protetor/internal/domain"
	"protetor/internal/ports"
)

// Server mounts one handler per capability. Handlers are stateless; all
// shared state lives behind the service ports.
type Server struct {
	breaches ports.BreachChecker
	scanner  ports.URLScanner
	ranges   ports.RangeProxy

	allowedOrigins []string
	defaultOrigin  string

	hibpConfigured         bool
	safeBrowsingConfigured bool
	storeBackend           string
}

type Options struct {
	AllowedOrigins         []string
	DefaultOrigin          string
	HIBPConfigured         bool
	SafeBrowsingConfigured bool
	StoreBackend           string
}

func New(breaches ports.BreachChecker, scanner ports.URLScanner, ranges ports.RangeProxy, opts Options) *Server {
	return &Server{
		breaches:               breaches,
		scanner:                scanner,
		ranges:                 ranges,
		allowedOrigins:         opts.AllowedOrigins,
		defaultOrigin:          opts.DefaultOrigin,
		hibpConfigured:         opts.HIBPConfigured,
		safeBrowsingConfigured: opts.SafeBrowsingConfigured,
		storeBackend:           opts.StoreBackend,
	}
}

// Routes builds the router. Endpoints answer both bare and under /api for
// deploy flexibility.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)
	r.Use(logRequests)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, prefix := range []string{"", "/api"} {
		r.Post(prefix+"/breach", instrument("breach", s.handleBreach))
		r.Post(prefix+"/pwned-password", instrument("pwned-password", s.handlePwnedPassword))
		r.Post(prefix+"/scan", instrument("scan", s.handleScan))
		r.Get(prefix+"/health", instrument("health", s.handleHealth))
	}
	return r
}

func (s *Server) handleBreach(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	report, err := s.breaches.Check(r.Context(), body.Email, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePwnedPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prefix string `json:"prefix"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	lines, err := s.ranges.Lookup(r.Context(), body.Prefix, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(lines))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := s.scanner.Scan(r.Context(), body.URL, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "2.1.0",
		"configured": map[string]any{
			"hibp":         s.hibpConfigured,
			"safeBrowsing": s.safeBrowsingConfigured,
			"store":        s.storeBackend,
		},
		"endpoints": []string{"/api/scan", "/api/breach", "/api/pwned-password", "/api/health"},
	})
}

// clientIP prefers the edge-provided header, then the (RealIP-resolved)
// remote address.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return "unknown"
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Messages stay
// generic; internals never reach the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, userMessage(err, "invalid input"))
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrUpstreamRateLimited):
		writeError(w, http.StatusTooManyRequests, userMessage(err, "too many requests, try again later"))
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, domain.ErrMisconfigured):
		writeError(w, http.StatusInternalServerError, "service misconfigured")
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream error, try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// userMessage surfaces the service's own wording for user-actionable errors
// and falls back to a generic line.
func userMessage(err error, fallback string) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return fallback
}
