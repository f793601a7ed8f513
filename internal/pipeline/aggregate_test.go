package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func sampleRecords() []model.CleanRecord {
	return []model.CleanRecord{
		{EntityID: "1", EntityName: "ACME", Modality: "Contratación Directa", Value: 1000, IsDirectAward: true},
		{EntityID: "1", EntityName: "ACME SA", Modality: "Licitación", Value: 2000},
		{EntityID: "2", EntityName: "BETA", Modality: "Directa", Value: 500, IsDirectAward: true},
	}
}

func TestAggregate_Features(t *testing.T) {
	profiles := Aggregate(sampleRecords())
	require.Len(t, profiles, 2)

	acme := profiles[0]
	assert.Equal(t, "1", acme.EntityID)
	assert.Equal(t, "ACME", acme.EntityName) // first observed name wins
	assert.Equal(t, 3000.0, acme.TotalValue)
	assert.Equal(t, 1500.0, acme.MeanValue)
	assert.Equal(t, 2, acme.ContractCount)
	assert.Equal(t, 0.5, acme.DirectAwardRatio)

	beta := profiles[1]
	assert.Equal(t, "2", beta.EntityID)
	assert.Equal(t, 500.0, beta.TotalValue)
	assert.Equal(t, 1, beta.ContractCount)
	assert.Equal(t, 1.0, beta.DirectAwardRatio)
}

func TestAggregate_ConservesTotalValue(t *testing.T) {
	records := sampleRecords()
	profiles := Aggregate(records)

	var recordSum, profileSum float64
	for _, r := range records {
		recordSum += r.Value
	}
	for _, p := range profiles {
		profileSum += p.TotalValue
	}
	assert.Equal(t, recordSum, profileSum)
}

func TestAggregate_Idempotent(t *testing.T) {
	records := sampleRecords()
	assert.Equal(t, Aggregate(records), Aggregate(records))
}

func TestAggregate_ExactIDMatch(t *testing.T) {
	records := []model.CleanRecord{
		{EntityID: "abc", EntityName: "A", Value: 1},
		{EntityID: "ABC", EntityName: "A", Value: 1},
		{EntityID: " abc", EntityName: "A", Value: 1},
	}

	// No id normalization: three distinct entities.
	assert.Len(t, Aggregate(records), 3)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
