package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestSetupWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggedash.log")
	closer := Setup("info", path)
	if closer == nil {
		t.Fatal("expected a closer for the file sink")
	}
	zlog.Info().Str("arquivo", "teste.xlsx").Msg("ingestão concluída")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"arquivo":"teste.xlsx"`) {
		t.Errorf("log file = %q", raw)
	}

	if Setup("info", "") != nil {
		t.Error("console-only setup should not return a closer")
	}
}
