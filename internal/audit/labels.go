package audit

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/model"
)

// DefaultLabels are the built-in cluster interpretations, applied to
// clusters ranked by centroid direct-award ratio, highest risk first.
var DefaultLabels = []string{
	"HIGH RISK: direct-award concentration",
	"Elevated direct-award reliance",
	"Mixed contracting profile",
	"Competitive contracting profile",
}

// RankLabels assigns human descriptions to cluster indices by ranking the
// run's centroids on direct-award ratio, descending. Cluster indices carry
// no meaning across runs, so the mapping must be recomputed after every
// segmentation; rank order is what stays stable. Ties break on total value
// (descending) and then cluster index so the mapping is deterministic.
// Clusters beyond the description list get a generic placeholder.
func RankLabels(centroids []model.ClusterCentroid, descriptions []string) map[int]string {
	if len(descriptions) == 0 {
		descriptions = DefaultLabels
	}

	ranked := make([]model.ClusterCentroid, len(centroids))
	copy(ranked, centroids)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DirectAwardRatio != ranked[j].DirectAwardRatio {
			return ranked[i].DirectAwardRatio > ranked[j].DirectAwardRatio
		}
		if ranked[i].TotalValue != ranked[j].TotalValue {
			return ranked[i].TotalValue > ranked[j].TotalValue
		}
		return ranked[i].Cluster < ranked[j].Cluster
	})

	mapping := make(map[int]string, len(ranked))
	for rank, c := range ranked {
		if rank < len(descriptions) {
			mapping[c.Cluster] = descriptions[rank]
		} else {
			mapping[c.Cluster] = fmt.Sprintf("Unclassified profile %d", c.Cluster)
		}
	}
	return mapping
}

// ClusterView is one labeled centroid in CLI and API output.
type ClusterView struct {
	Cluster          int     `json:"cluster"`
	Label            string  `json:"label"`
	Size             int     `json:"size"`
	TotalValue       float64 `json:"total_value"`
	ContractCount    float64 `json:"contract_count"`
	DirectAwardRatio float64 `json:"direct_award_ratio"`
}

// DescribeClusters pairs each centroid with its rank-assigned label.
func DescribeClusters(res *cluster.Result, descriptions []string) []ClusterView {
	mapping := RankLabels(res.Centroids, descriptions)
	views := make([]ClusterView, 0, len(res.Centroids))
	for _, c := range res.Centroids {
		views = append(views, ClusterView{
			Cluster:          c.Cluster,
			Label:            mapping[c.Cluster],
			Size:             c.Size,
			TotalValue:       c.TotalValue,
			ContractCount:    c.ContractCount,
			DirectAwardRatio: c.DirectAwardRatio,
		})
	}
	return views
}

// labelFile is the YAML shape of a caller-supplied label list.
type labelFile struct {
	Labels []string `yaml:"labels"`
}

// LoadLabels reads a rank-ordered label list from a YAML file.
func LoadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "audit: read labels %s", path)
	}

	var lf labelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, eris.Wrap(err, "audit: parse labels")
	}
	if len(lf.Labels) == 0 {
		return nil, eris.New("audit: label file has no labels")
	}
	return lf.Labels, nil
}
