// Package pipeline turns cleaned procurement records into per-entity
// behavioral profiles and owns the state of a single analysis run.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/model"
)

// Aggregate groups clean records by entity id and computes per-entity
// features. Grouping is by exact string match; differently-cased or padded
// ids are distinct entities, mirroring the source data's own identity rules.
//
// Profiles come out in first-seen entity order, the entity name is the name
// of the first record in input order, and profiles with a non-positive total
// are dropped. The post-filter cannot fire on records the cleaner produced;
// it is enforced independently anyway.
func Aggregate(records []model.CleanRecord) []model.EntityProfile {
	type group struct {
		name   string
		total  float64
		count  int
		direct int
	}

	groups := make(map[string]*group)
	var order []string

	for _, r := range records {
		g, ok := groups[r.EntityID]
		if !ok {
			g = &group{name: r.EntityName}
			groups[r.EntityID] = g
			order = append(order, r.EntityID)
		}
		g.total += r.Value
		g.count++
		if r.IsDirectAward {
			g.direct++
		}
	}

	profiles := make([]model.EntityProfile, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if g.total <= 0 {
			continue
		}
		profiles = append(profiles, model.EntityProfile{
			EntityID:         id,
			EntityName:       g.name,
			TotalValue:       g.total,
			MeanValue:        g.total / float64(g.count),
			ContractCount:    g.count,
			DirectAwardRatio: float64(g.direct) / float64(g.count),
		})
	}

	zap.L().Info("pipeline: aggregated entity profiles",
		zap.Int("records", len(records)),
		zap.Int("entities", len(profiles)),
	)

	return profiles
}
