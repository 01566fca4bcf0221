package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/adapters/spreadsheet"
	"github.com/phenrril/gge-dashboard/internal/app"
	"github.com/phenrril/gge-dashboard/internal/config"
	"github.com/phenrril/gge-dashboard/internal/domain"
	"github.com/phenrril/gge-dashboard/internal/logging"
	"github.com/phenrril/gge-dashboard/internal/usecase"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", "", "planilha a importar (.xlsx, .xlsm, .csv)")
	skip := flag.Int("skip-rows", cfg.SkipRows, "linhas de metadados acima do cabeçalho")
	sheet := flag.String("sheet", "", "aba do xlsx (padrão: primeira)")
	dryRun := flag.Bool("dry-run", false, "só normaliza e mostra o relatório, sem gravar")
	aliases := flag.String("aliases", cfg.AliasesFile, "arquivo yaml com aliases extras de colunas")
	timeout := flag.Duration("timeout", 2*time.Minute, "tempo máximo da importação")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	closer := logging.Setup(cfg.LogLevel, cfg.LogFile)
	code := run(cfg, *file, *skip, *sheet, *aliases, *dryRun, *timeout)
	if closer != nil {
		_ = closer.Close()
	}
	os.Exit(code)
}

func run(cfg *config.Config, file string, skip int, sheet, aliasesFile string, dryRun bool, timeout time.Duration) int {
	data, err := os.ReadFile(file)
	if err != nil {
		zlog.Error().Err(err).Str("file", file).Msg("ler arquivo")
		return 1
	}
	table, err := spreadsheet.ReadTable(file, data, spreadsheet.Options{SkipRows: skip, Sheet: sheet})
	if err != nil {
		zlog.Error().Err(err).Msg("ler planilha")
		return 1
	}
	aliases, err := usecase.LoadAliases(aliasesFile)
	if err != nil {
		zlog.Error().Err(err).Msg("carregar aliases")
		return 1
	}

	uc := &usecase.ListingUC{
		Listings:   app.NewListingRepo(cfg.DB),
		Normalizer: usecase.NewNormalizer(aliases),
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rep, err := uc.Ingest(ctx, table, filepath.Base(file), dryRun)
	if err != nil {
		var se *domain.SchemaError
		if errors.As(err, &se) {
			zlog.Error().Strs("missing", se.Missing).Msg(se.Error())
			return 3
		}
		zlog.Error().Err(err).Msg("importação falhou")
		return 1
	}
	printReport(rep)
	return 0
}

func printReport(rep *domain.IngestReport) {
	fields := make([]string, 0, len(rep.Mapping))
	for f := range rep.Mapping {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Printf("arquivo:    %s", rep.FileName)
	if rep.Sheet != "" {
		fmt.Printf(" (aba %s)", rep.Sheet)
	}
	fmt.Println()
	fmt.Println("mapeamento:")
	for _, f := range fields {
		h := rep.Mapping[f]
		if h == "" {
			h = "-"
		}
		fmt.Printf("  %-20s <- %s\n", f, h)
	}
	verb := "inseridos"
	if rep.DryRun {
		verb = "seriam inseridos"
	}
	fmt.Printf("%s: %d\n", verb, rep.Inserted)
	fmt.Printf("descartados: %d em branco, %d sem id, %d duplicados\n",
		rep.Dropped.Blank, rep.Dropped.MissingID, rep.Dropped.Duplicate)
	for _, w := range rep.Warnings {
		fmt.Println("aviso:", w.Error())
	}
}
