package spreadsheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

func buildXLSX(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadTable_XLSXFirstSheetWithSkipRows(t *testing.T) {
	data := buildXLSX(t, map[string][][]any{
		"Anuncios": {
			{"Relatório de anúncios"},
			{"gerado em 2024-03-01"},
			{" ITEM_ID ", "SKU", "PRICE"},
			{"MLB1", "A-1", "10,50"},
			{"MLB2", "A-2", "7"},
		},
		"Outros": {{"x"}},
	}, "Anuncios", "Outros")

	tbl, err := ReadTable("export.xlsx", data, Options{SkipRows: 2})
	require.NoError(t, err)
	assert.Equal(t, "Anuncios", tbl.Sheet)
	assert.Equal(t, []string{"ITEM_ID", "SKU", "PRICE"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"MLB1", "A-1", "10,50"}, tbl.Rows[0])
}

func TestReadTable_XLSXNamedSheet(t *testing.T) {
	data := buildXLSX(t, map[string][][]any{
		"Capa":     {{"nada"}},
		"Anuncios": {{"ITEM_ID"}, {"MLB9"}},
	}, "Capa", "Anuncios")

	tbl, err := ReadTable("a.XLSX", data, Options{Sheet: "anuncios"})
	require.NoError(t, err)
	assert.Equal(t, "Anuncios", tbl.Sheet)
	assert.Equal(t, [][]string{{"MLB9"}}, tbl.Rows)

	_, err = ReadTable("a.xlsx", data, Options{Sheet: "missing"})
	assert.Error(t, err)
}

func TestReadTable_CSVDelimiters(t *testing.T) {
	semi := "\xef\xbb\xbfid_anuncio;titulo;preco_venda\nMLB1;Fone;\"1.234,56\"\n"
	tbl, err := ReadTable("dump.csv", []byte(semi), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id_anuncio", "titulo", "preco_venda"}, tbl.Header)
	assert.Equal(t, [][]string{{"MLB1", "Fone", "1.234,56"}}, tbl.Rows)

	comma := "id_anuncio,titulo\nMLB1,Fone\nMLB2\n"
	tbl, err = ReadTable("dump.csv", []byte(comma), Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"MLB1", "Fone"}, {"MLB2"}}, tbl.Rows)
}

func TestReadTable_SkipBeyondEnd(t *testing.T) {
	tbl, err := ReadTable("dump.csv", []byte("a,b\n1,2\n"), Options{SkipRows: 5})
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestReadTable_Rejects(t *testing.T) {
	_, err := ReadTable("notes.pdf", []byte("%PDF"), Options{})
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFile))

	_, err = ReadTable("x.csv", nil, Options{})
	assert.Error(t, err)

	_, err = ReadTable("broken.xlsx", []byte("not a zip"), Options{})
	assert.Error(t, err)
}

func TestReadTable_CSVSniffsHeaderAfterSkippedRows(t *testing.T) {
	raw := "Relatório, gerado em 01/03/2024\nid_anuncio;titulo\nMLB1;Fone, preto\n"
	tbl, err := ReadTable("dump.csv", []byte(raw), Options{SkipRows: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"id_anuncio", "titulo"}, tbl.Header)
	assert.Equal(t, [][]string{{"MLB1", "Fone, preto"}}, tbl.Rows)
}
