package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/domain"
	"github.com/phenrril/gge-dashboard/internal/usecase"
)

type Options struct {
	AdminAPIKey string
	AdminSecret []byte
	// MaxUploadMB caps multipart uploads on /admin/ingest.
	MaxUploadMB int
	// SkipRows is the default number of metadata rows above the header.
	SkipRows int
	Metrics  *Metrics
}

type Server struct {
	router   chi.Router
	tmpl     *template.Template
	listings *usecase.ListingUC
	metrics  *Metrics
	opts     Options

	adminSecret []byte
	adminLimit  *RateLimiter
}

func New(t *template.Template, listings *usecase.ListingUC, opts Options) http.Handler {
	s := &Server{
		router:   chi.NewRouter(),
		tmpl:     t,
		listings: listings,
		metrics:  opts.Metrics,
		opts:     opts,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.opts.MaxUploadMB <= 0 {
		s.opts.MaxUploadMB = 32
	}
	s.adminSecret = opts.AdminSecret
	if len(s.adminSecret) == 0 {
		s.adminSecret = randomSecret()
		if opts.AdminAPIKey != "" {
			log.Warn().Msg("JWT_ADMIN_SECRET vazio: segredo aleatório, tokens não sobrevivem a reinícios")
		}
	}
	if opts.AdminAPIKey == "" {
		log.Warn().Msg("ADMIN_API_KEY vazio: rotas /admin abertas")
	}
	s.adminLimit = NewRateLimiter(30, 10)

	s.routes()
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Recovery)
	r.Use(Logging)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handleDashboard)
	r.Post("/refresh", s.handleRefresh)

	r.Get("/api/listings", s.apiListings)
	r.Get("/api/summary", s.apiSummary)
	r.Get("/api/options", s.apiOptions)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.adminLimit.Middleware)
		r.Post("/login", s.handleAdminLogin)
		r.Post("/logout", s.handleAdminLogout)
		r.Post("/ingest", s.handleAdminIngest)
		r.Get("/ingest/last", s.handleAdminLastIngest)
		r.Get("/export/csv", s.handleAdminExportCSV)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := map[string]any{}
	if n := q.Get("imported"); n != "" {
		data["Notice"] = "Importação concluída: " + n + " anúncios."
	}
	if q.Get("refreshed") != "" {
		data["Notice"] = "Dados recarregados."
	}
	s.renderDashboard(w, r, http.StatusOK, data)
}

// renderDashboard always answers with the page; load failures only show up
// as the warning banner.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, code int, data map[string]any) {
	f := domain.FilterFromQuery(r.URL.Query())
	d, err := s.dashboard(r, f)
	if err != nil {
		data["LoadError"] = err.Error()
	}
	data["D"] = d
	data["AdminOpen"] = s.opts.AdminAPIKey == ""
	data["IsAdmin"] = s.isAdminSession(r)
	data["Last"] = s.listings.LastIngest()
	data["HistMax"] = histMax(d.TypeHistogram)
	data["StockMax"] = stockMax(d.TopStock)
	s.render(w, code, "dashboard.html", data)
}

func (s *Server) dashboard(r *http.Request, f domain.ListingFilter) (*domain.Dashboard, error) {
	d, err := s.listings.Dashboard(r.Context(), f)
	if err != nil {
		s.metrics.FetchErrors.Inc()
		return d, err
	}
	s.metrics.Listings.Set(float64(d.Total))
	return d, nil
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.listings.Refresh(r.Context())
	target := "/?refreshed=1"
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Path == "/" {
			q := u.Query()
			q.Set("refreshed", "1")
			target = "/?" + q.Encode()
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) apiListings(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r, domain.FilterFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, err, d.Warning)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter":     d.Filter,
		"total":      d.Total,
		"count":      len(d.Listings),
		"listings":   d.Listings,
		"indicators": d.Indicators,
		"warning":    d.Warning,
	})
}

func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r, domain.FilterFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, err, d.Warning)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter":         d.Filter,
		"indicators":     d.Indicators,
		"type_histogram": d.TypeHistogram,
		"top_stock":      d.TopStock,
		"generated_at":   d.GeneratedAt,
	})
}

func (s *Server) apiOptions(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r, domain.ListingFilter{})
	if err != nil {
		writeError(w, err, d.Warning)
		return
	}
	writeJSON(w, http.StatusOK, d.Options)
}

func (s *Server) render(w http.ResponseWriter, code int, name string, data map[string]any) {
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("renderizar template")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the domain error taxonomy onto HTTP codes.
func statusFor(err error) (int, string) {
	var (
		se *domain.SchemaError
		ce *domain.ConnectivityError
		we *domain.WriteError
	)
	switch {
	case errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusBadRequest, "unsupported_file"
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity, "schema"
	case errors.As(err, &ce):
		return http.StatusServiceUnavailable, "connectivity"
	case errors.As(err, &we):
		return http.StatusInternalServerError, "write"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error, warning string) {
	code, kind := statusFor(err)
	body := map[string]any{"error": kind, "message": err.Error()}
	var se *domain.SchemaError
	if errors.As(err, &se) {
		body["missing"] = se.Missing
	}
	if warning != "" {
		body["warning"] = warning
	}
	writeJSON(w, code, body)
}

func histMax(h []domain.TypeCount) int {
	m := 0
	for _, c := range h {
		if c.Count > m {
			m = c.Count
		}
	}
	return m
}

func stockMax(l []domain.Listing) int {
	m := 0
	for _, x := range l {
		if x.StockQuantity > m {
			m = x.StockQuantity
		}
	}
	return m
}
