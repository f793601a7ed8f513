package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab/secop-cli/internal/model"
)

func TestTopModalities_RankedAndCapped(t *testing.T) {
	records := []model.CleanRecord{
		{Modality: "Directa", Value: 1},
		{Modality: "Directa", Value: 1},
		{Modality: "Directa", Value: 1},
		{Modality: "Licitación", Value: 1},
		{Modality: "Licitación", Value: 1},
		{Modality: "Subasta", Value: 1},
	}

	top := topModalities(records, 2)
	require.Len(t, top, 2)
	assert.Equal(t, ModalityCount{Modality: "Directa", Count: 3}, top[0])
	assert.Equal(t, ModalityCount{Modality: "Licitación", Count: 2}, top[1])
}

func TestTopModalities_TieBreaksAlphabetically(t *testing.T) {
	records := []model.CleanRecord{
		{Modality: "b", Value: 1},
		{Modality: "a", Value: 1},
	}

	top := topModalities(records, 5)
	assert.Equal(t, "a", top[0].Modality)
	assert.Equal(t, "b", top[1].Modality)
}

func TestValueHistogram_BucketsCoverRange(t *testing.T) {
	records := []model.CleanRecord{
		{Value: 10}, {Value: 20}, {Value: 30}, {Value: 40}, {Value: 50},
	}

	buckets := valueHistogram(records, 4)
	require.Len(t, buckets, 4)

	assert.Equal(t, 10.0, buckets[0].Low)
	assert.Equal(t, 50.0, buckets[3].High)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, len(records), total)

	// Max value lands in the last bucket, not out of range.
	assert.GreaterOrEqual(t, buckets[3].Count, 1)
}

func TestValueHistogram_DegenerateRange(t *testing.T) {
	records := []model.CleanRecord{{Value: 7}, {Value: 7}}

	buckets := valueHistogram(records, 30)
	require.Len(t, buckets, 1)
	assert.Equal(t, 2, buckets[0].Count)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, 5, 30)
	assert.Equal(t, 0, summary.Records)
	assert.Empty(t, summary.TopModalities)
	assert.Nil(t, summary.ValueHistogram)
}
