package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/dataset"
)

func secopTable(rows [][]string) *dataset.Table {
	return dataset.NewTable(
		[]string{"entidad", "nit_entidad", "modalidad_de_contratacion", "valor_total_adjudicacion"},
		rows,
	)
}

func TestContext_EndToEnd(t *testing.T) {
	tbl := secopTable([][]string{
		{"ACME", "1", "Contratación Directa", "$1,000"},
		{"ACME", "1", "Licitación", "2000"},
		{"BETA", "2", "Directa", "500"},
	})

	ctx := NewContext()
	require.NoError(t, ctx.Load(tbl))

	require.Len(t, ctx.Records(), 3)
	assert.Equal(t, []float64{1000, 2000, 500}, []float64{
		ctx.Records()[0].Value, ctx.Records()[1].Value, ctx.Records()[2].Value,
	})

	profiles := ctx.Profiles()
	require.Len(t, profiles, 2)
	assert.Equal(t, 3000.0, profiles[0].TotalValue)
	assert.Equal(t, 2, profiles[0].ContractCount)
	assert.Equal(t, 0.5, profiles[0].DirectAwardRatio)
	assert.Equal(t, 500.0, profiles[1].TotalValue)
	assert.Equal(t, 1, profiles[1].ContractCount)
	assert.Equal(t, 1.0, profiles[1].DirectAwardRatio)

	res, err := ctx.Segment(cluster.Options{K: 2, Seed: 42})
	require.NoError(t, err)
	assert.Len(t, res.Labels, 2)
	assert.Same(t, res, ctx.Segmentation())
}

func TestContext_StagesRequireDataset(t *testing.T) {
	ctx := NewContext()

	_, err := ctx.EDA(5, 30)
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = ctx.Segment(cluster.Options{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestContext_FailedSegmentKeepsProfilesUnsegmented(t *testing.T) {
	tbl := secopTable([][]string{
		{"ACME", "1", "Directa", "100"},
		{"BETA", "2", "Directa", "200"},
	})

	ctx := NewContext()
	require.NoError(t, ctx.Load(tbl))

	_, err := ctx.Segment(cluster.Options{K: 4, Seed: 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, cluster.ErrInsufficientData)

	// Profiles survive; segmentation does not.
	assert.Len(t, ctx.Profiles(), 2)
	assert.Nil(t, ctx.Segmentation())
}

func TestContext_LoadReplacesPriorRun(t *testing.T) {
	first := secopTable([][]string{
		{"A", "1", "Directa", "10"},
		{"B", "2", "Directa", "20"},
		{"C", "3", "Licitación", "30"},
		{"D", "4", "Licitación", "40"},
	})

	ctx := NewContext()
	require.NoError(t, ctx.Load(first))
	_, err := ctx.Segment(cluster.Options{K: 2, Seed: 42})
	require.NoError(t, err)

	second := secopTable([][]string{
		{"E", "5", "Directa", "50"},
	})
	require.NoError(t, ctx.Load(second))

	// New load invalidates the prior segmentation and profiles.
	assert.Nil(t, ctx.Segmentation())
	require.Len(t, ctx.Profiles(), 1)
	assert.Equal(t, "5", ctx.Profiles()[0].EntityID)
}

func TestContext_EDASummary(t *testing.T) {
	tbl := secopTable([][]string{
		{"A", "1", "Directa", "10"},
		{"B", "2", "Directa", "20"},
		{"C", "3", "Licitación", "30"},
	})

	ctx := NewContext()
	require.NoError(t, ctx.Load(tbl))

	summary, err := ctx.EDA(5, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, "Directa", summary.TopModalities[0].Modality)
	assert.Equal(t, 2, summary.TopModalities[0].Count)
}
