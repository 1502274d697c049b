// Package httpapi exposes the audit engine over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/export"
	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
	"github.com/a11ykraft/a11ykraft/internal/logging"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes int64 = 8 << 20

type Router struct {
	svc     *application.AuditService
	orch    *application.Orchestrator
	gen     domain.FixGenerator
	maxBody int64
	origins []string
	logger  *slog.Logger
}

// Option configures the router.
type Option func(*Router)

// WithFixGenerator enriches audits with generated remedies.
func WithFixGenerator(g domain.FixGenerator) Option {
	return func(r *Router) { r.gen = g }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Router) { r.maxBody = n }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(r *Router) { r.origins = origins }
}

func NewRouter(svc *application.AuditService, orch *application.Orchestrator, opts ...Option) http.Handler {
	r := &Router{
		svc:     svc,
		orch:    orch,
		maxBody: DefaultMaxBodyBytes,
		origins: []string{"*"},
		logger:  logging.New("http"),
	}
	for _, opt := range opts {
		opt(r)
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/analyzers", r.wrap(r.handleAnalyzers))
		rt.Get("/rules", r.wrap(r.handleRules))
		rt.Get("/stats", r.wrap(r.handleStats))
		rt.Post("/recommendations", r.wrap(r.handleRecommend))
		rt.Post("/audits", r.wrap(r.handleAudit))
	})

	return mux
}

// statusError carries an HTTP status for client errors.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		var se *statusError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &se):
			status = se.status
		case errors.As(err, &tooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, domain.ErrInvalidContext), errors.Is(err, domain.ErrUnsupportedFormat):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrQuotaExceeded):
			status = http.StatusTooManyRequests
		}
		if status >= 500 {
			r.logger.Error("request failed",
				slog.String("path", req.URL.Path),
				slog.String("request_id", middleware.GetReqID(req.Context())),
				slog.String("error", err.Error()),
			)
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// GET /v1/analyzers
func (r *Router) handleAnalyzers(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, r.orch.Analyzers())
}

// GET /v1/rules?level=AA
func (r *Router) handleRules(w http.ResponseWriter, req *http.Request) error {
	rules := domain.RuleCatalog()
	if q := req.URL.Query().Get("level"); q != "" {
		level, err := domain.ParseLevel(q)
		if err != nil {
			return badRequest("%v", err)
		}
		scoped := rules[:0]
		for _, rule := range rules {
			if level.Includes(rule.Level) {
				scoped = append(scoped, rule)
			}
		}
		rules = scoped
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"catalog": domain.RuleCatalogVersion,
		"rules":   rules,
	})
}

// GET /v1/stats
func (r *Router) handleStats(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, r.orch.Stats())
}

// documentBody is the request body of the audit and recommendation
// endpoints.
type documentBody struct {
	Filename  string   `json:"filename"`
	Text      string   `json:"text"`
	PageCount int      `json:"page_count"`
	Level     string   `json:"level"`
	Language  string   `json:"language"`
	Analyzers []string `json:"analyzers"`
	HasImages *bool    `json:"has_images"`
	HasTables *bool    `json:"has_tables"`
	HasLinks  *bool    `json:"has_links"`
}

func (r *Router) decode(w http.ResponseWriter, req *http.Request) (documentBody, error) {
	var body documentBody
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, r.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return body, err
		}
		return body, badRequest("invalid request body: %v", err)
	}
	if strings.TrimSpace(body.Text) == "" {
		return body, badRequest("text is required")
	}
	if body.Filename == "" {
		body.Filename = "document.txt"
	}
	return body, nil
}

func (b documentBody) document() domain.ExtractedDocument {
	return domain.ExtractedDocument{Filename: b.Filename, Text: b.Text, PageCount: b.PageCount}
}

func (b documentBody) request() application.AuditRequest {
	return application.AuditRequest{
		Level:     b.Level,
		Language:  b.Language,
		Analyzers: b.Analyzers,
		HasImages: b.HasImages,
		HasTables: b.HasTables,
		HasLinks:  b.HasLinks,
	}
}

// POST /v1/recommendations
func (r *Router) handleRecommend(w http.ResponseWriter, req *http.Request) error {
	body, err := r.decode(w, req)
	if err != nil {
		return err
	}
	rec, err := r.svc.RecommendDocument(body.document(), body.request())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// POST /v1/audits?format=json|html|markdown|csv
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	format := export.FormatJSON
	if q := req.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			return err
		}
		format = f
	}

	body, err := r.decode(w, req)
	if err != nil {
		return err
	}
	areq := body.request()
	areq.FixGenerator = r.gen

	out, err := r.svc.AuditDocument(req.Context(), body.document(), areq)
	if err != nil {
		return err
	}

	data, err := export.Export(out.Report, format)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("X-Report-Id", out.Report.ReportID)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}
