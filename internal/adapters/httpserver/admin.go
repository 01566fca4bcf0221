package httpserver

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/adapters/spreadsheet"
	"github.com/phenrril/gge-dashboard/internal/domain"
	"github.com/phenrril/gge-dashboard/internal/usecase"
)

var exportHeader = []string{
	"id_anuncio", "id_conta", "sku", "titulo", "preco_venda", "status", "tipo_anuncio",
	"custo_frete", "quantidade_estoque", "vendas_totais", "data_criacao", "data_atualizacao",
	"nota_descricao", "nota_ficha_tecnica", "nota_fotos", "status_catalogo", "status_flex",
}

// handleAdminIngest replaces the whole Anuncios table with the uploaded
// spreadsheet. Form posts (redirect=1) come back to the dashboard.
func (s *Server) handleAdminIngest(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	html := r.URL.Query().Get("redirect") != ""
	fail := func(err error) {
		code, kind := statusFor(err)
		s.metrics.Ingests.WithLabelValues(kind).Inc()
		log.Warn().Err(err).Int("status", code).Msg("ingestão falhou")
		if html {
			s.renderDashboard(w, r, code, map[string]any{"Error": err.Error()})
			return
		}
		writeError(w, err, "")
	}

	limit := int64(s.opts.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "multipart", "message": err.Error()})
		return
	}
	html = html || r.FormValue("redirect") != ""
	fh := r.MultipartForm.File["file"]
	if len(fh) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file", "message": "campo file ausente"})
		return
	}
	f, err := fh[0].Open()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file", "message": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file", "message": err.Error()})
		return
	}

	skip := s.opts.SkipRows
	if v := strings.TrimSpace(r.FormValue("skip_rows")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "skip_rows"})
			return
		}
		skip = n
	}
	dryRun, _ := strconv.ParseBool(r.FormValue("dry_run"))

	table, err := spreadsheet.ReadTable(fh[0].Filename, data, spreadsheet.Options{
		SkipRows: skip,
		Sheet:    strings.TrimSpace(r.FormValue("sheet")),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUnsupportedFile) {
			err = &domain.SchemaError{Detail: err.Error()}
		}
		fail(err)
		return
	}
	rep, err := s.listings.Ingest(r.Context(), table, fh[0].Filename, dryRun)
	if err != nil {
		fail(err)
		return
	}
	result := "ok"
	if dryRun {
		result = "dry_run"
	}
	s.metrics.Ingests.WithLabelValues(result).Inc()
	if html && !dryRun {
		http.Redirect(w, r, "/?imported="+strconv.Itoa(rep.Inserted), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAdminLastIngest(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	rep := s.listings.LastIngest()
	if rep == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no_ingest"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAdminExportCSV(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	all, err := s.listings.Load(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	list := usecase.FilterListings(all, domain.FilterFromQuery(r.URL.Query()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=anuncios.csv")
	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, l := range list {
		_ = cw.Write([]string{
			l.ListingID,
			strconv.FormatInt(l.AccountID, 10),
			l.SKU,
			l.Title,
			l.SalePrice.StringFixed(2),
			l.Status,
			l.ListingType,
			l.ShippingCost.StringFixed(2),
			strconv.Itoa(l.StockQuantity),
			strconv.Itoa(l.TotalSales),
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.UpdatedAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(l.DescriptionScore, 'f', -1, 64),
			strconv.FormatFloat(l.SpecSheetScore, 'f', -1, 64),
			strconv.FormatFloat(l.PhotoScore, 'f', -1, 64),
			l.CatalogStatus,
			l.FlexStatus,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Error().Err(err).Msg("exportar csv")
	}
}
