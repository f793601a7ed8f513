package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_LowercasesHeader(t *testing.T) {
	tbl := NewTable([]string{"Entidad", " NIT_Entidad ", "VALOR"}, nil)

	assert.Equal(t, []string{"entidad", "nit_entidad", "valor"}, tbl.Columns)
	assert.True(t, tbl.HasColumn("nit_entidad"))
	assert.False(t, tbl.HasColumn("NIT_Entidad"))
}

func TestTable_RaggedRows(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"}, [][]string{
		{"1", "2", "3"},
		{"1"},
	})

	assert.Equal(t, "3", tbl.Cell(0, "c"))
	assert.Equal(t, "", tbl.Cell(1, "c"))
	assert.Equal(t, "", tbl.Cell(5, "a"))
	assert.Equal(t, "", tbl.Cell(0, "missing"))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "Entidad,NIT_Entidad,Modalidad,Valor\nACME,1,Directa,\"$1,000\"\nBETA,2,Licitación,2000\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	tbl, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "$1,000", tbl.Cell(0, "valor"))
	assert.Equal(t, "BETA", tbl.Cell(1, "entidad"))
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
