package app

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/phenrril/gge-dashboard/internal/adapters/cache"
	"github.com/phenrril/gge-dashboard/internal/adapters/httpserver"
	"github.com/phenrril/gge-dashboard/internal/adapters/repo/sqlstore"
	"github.com/phenrril/gge-dashboard/internal/config"
	"github.com/phenrril/gge-dashboard/internal/domain"
	"github.com/phenrril/gge-dashboard/internal/usecase"
	"github.com/phenrril/gge-dashboard/internal/views"
)

type App struct {
	Config    *config.Config
	Tmpl      *template.Template
	ListingUC *usecase.ListingUC
	Metrics   *httpserver.Metrics

	closers []io.Closer
}

// NewApp wires the dashboard. A missing database descriptor is not fatal:
// the dashboard starts and shows the load warning until one is configured.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	aliases, err := usecase.LoadAliases(cfg.AliasesFile)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Metrics: httpserver.NewMetrics()}
	a.ListingUC = &usecase.ListingUC{
		Listings:   NewListingRepo(cfg.DB),
		Cache:      a.newCache(ctx),
		Normalizer: usecase.NewNormalizer(aliases),
	}

	tmpl, err := parseTemplates(cfg.IsDev())
	if err != nil {
		return nil, err
	}
	a.Tmpl = tmpl
	return a, nil
}

const viewsGlob = "internal/views/*.html"

// parseTemplates reads views from disk in dev when started from the repo
// root, and from the embedded copy otherwise.
func parseTemplates(dev bool) (*template.Template, error) {
	tmpl := template.New("layout").Funcs(FuncMap())
	if dev {
		if files, _ := filepath.Glob(viewsGlob); len(files) > 0 {
			return tmpl.ParseFiles(files...)
		}
	}
	return tmpl.ParseFS(views.FS, "*.html")
}

// NewListingRepo returns nil (no repository) when cfg carries no descriptor.
func NewListingRepo(cfg config.DBConfig) domain.ListingRepo {
	if !cfg.Configured() {
		log.Warn().Msg("banco de dados não configurado (DB_DSN / DB_HOST)")
		return nil
	}
	return sqlstore.NewLazyListingRepo(func() (*gorm.DB, error) {
		return sqlstore.Open(cfg)
	}, cfg.AutoMigrate)
}

func (a *App) newCache(ctx context.Context) domain.ListingCache {
	rc := a.Config.Redis
	if rc.Addr == "" {
		return cache.NewMemory(a.Config.CacheTTL)
	}
	client, err := cache.Dial(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", rc.Addr).Msg("redis indisponível, usando cache em memória")
		return cache.NewMemory(a.Config.CacheTTL)
	}
	a.closers = append(a.closers, client)
	log.Info().Str("addr", rc.Addr).Msg("cache redis ativo")
	return cache.NewRedis(client, "", a.Config.CacheTTL)
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.ListingUC, httpserver.Options{
		AdminAPIKey: a.Config.AdminAPIKey,
		AdminSecret: []byte(a.Config.AdminSecret),
		MaxUploadMB: a.Config.MaxUploadMB,
		SkipRows:    a.Config.SkipRows,
		Metrics:     a.Metrics,
	})
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add":  func(a, b int) int { return a + b },
		"brl":  FormatBRL,
		"num":  formatInt,
		"date": formatDate,
		// bar width in percent of the largest bar
		"pct": func(v, top int) int {
			if top <= 0 || v <= 0 {
				return 0
			}
			return v * 100 / top
		},
	}
}

// FormatBRL renders "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)
	intPart, frac := s, "00"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}
	out := groupThousands(intPart) + "," + frac
	if neg {
		return "-R$ " + out
	}
	return "R$ " + out
}

func formatInt(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out := s[:rem]
	for i := rem; i < n; i += 3 {
		out += "." + s[i:i+3]
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}
