package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/auditlab/secop-cli/internal/audit"
	"github.com/auditlab/secop-cli/internal/model"
)

func TestFormatMatches(t *testing.T) {
	matches := []audit.Match{
		{
			EntityProfile: model.EntityProfile{
				EntityID:         "900123456",
				EntityName:       "ALCALDÍA DE PRUEBA",
				TotalValue:       3000,
				MeanValue:        1500,
				ContractCount:    2,
				DirectAwardRatio: 1.0,
			},
			Cluster: 1,
			Profile: "HIGH RISK: direct-award concentration",
			Alert:   "high alert",
		},
	}

	var sb strings.Builder
	formatMatches(&sb, matches)
	out := sb.String()

	assert.Contains(t, out, "Alcaldía De Prueba")
	assert.Contains(t, out, "900123456")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "high alert")
}

func TestFormatMatches_Empty(t *testing.T) {
	var sb strings.Builder
	formatMatches(&sb, nil)
	assert.Equal(t, "No matching entities.\n", sb.String())
}

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "aaaabbbb-cccc-dddd-eeee-ffff00001111",
			Dataset:   "secop_auditoria.csv",
			Status:    model.RunStatusComplete,
			Summary:   &model.RunSummary{Entities: 12, WCSS: 3.5},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "22223333-4444-5555-6666-777788889999",
			Dataset:   "a_very_long_dataset_file_name_export.csv",
			Status:    model.RunStatusFailed,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "aaaabbbb")
	assert.NotContains(t, out, "aaaabbbb-cccc")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "failed")
	// Long dataset names are truncated for display.
	assert.Contains(t, out, "...")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789abc"))
	assert.Equal(t, "short", truncateID("short"))
}
