// Package audit answers forensic point queries against segmented entity
// profiles.
package audit

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/model"
)

// ErrNotSegmented indicates a query was attempted before a successful
// segmentation run for the current dataset.
var ErrNotSegmented = eris.New("audit: segmentation has not been run")

// AlertThreshold is the direct-award ratio at or above which an entity is
// flagged. Fixed by design, not configurable.
const AlertThreshold = 0.95

// maxMatches caps the number of profiles returned per query.
const maxMatches = 10

// Alert levels derived at query time.
const (
	AlertHigh   = "high alert"
	AlertNormal = "normal"
)

// Match is one query hit: the entity profile enriched with its cluster, the
// run's ranked interpretation of that cluster, and the derived alert flag.
type Match struct {
	model.EntityProfile

	Cluster int    `json:"cluster"`
	Profile string `json:"profile"`
	Alert   string `json:"alert"`
}

// Service answers queries against one segmentation run. Build a new Service
// after each run; it holds no mutable state.
type Service struct {
	profiles     []model.EntityProfile
	labels       []int
	descriptions map[int]string
}

// NewService pairs profiles with their segmentation result. Descriptions are
// rank-assigned from the run's centroids (see RankLabels). Fails with
// ErrNotSegmented when no segmentation is available or it does not cover the
// profiles.
func NewService(profiles []model.EntityProfile, seg *cluster.Result, descriptions []string) (*Service, error) {
	if seg == nil || len(seg.Labels) != len(profiles) {
		return nil, ErrNotSegmented
	}
	return &Service{
		profiles:     profiles,
		labels:       seg.Labels,
		descriptions: RankLabels(seg.Centroids, descriptions),
	}, nil
}

// Query matches text case-insensitively against entity names and as a
// substring against entity ids, returning up to 10 matches in stable profile
// order. Empty or whitespace-only text returns an empty result, not an
// error, as does a query matching nothing.
func (s *Service) Query(text string) []Match {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return []Match{}
	}

	matches := make([]Match, 0, maxMatches)
	for i, p := range s.profiles {
		if !strings.Contains(strings.ToLower(p.EntityName), needle) &&
			!strings.Contains(p.EntityID, strings.TrimSpace(text)) {
			continue
		}

		cl := s.labels[i]
		matches = append(matches, Match{
			EntityProfile: p,
			Cluster:       cl,
			Profile:       s.descriptions[cl],
			Alert:         alertFlag(p.DirectAwardRatio),
		})
		if len(matches) == maxMatches {
			break
		}
	}
	return matches
}

// alertFlag derives the alert level from the direct-award ratio.
func alertFlag(directRatio float64) string {
	if directRatio >= AlertThreshold {
		return AlertHigh
	}
	return AlertNormal
}
