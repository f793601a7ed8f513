// Package model defines the data structures shared across the audit pipeline.
package model

// CleanRecord is a single procurement transaction after value normalization.
// Value is always strictly positive; rows that fail coercion never become
// CleanRecords.
type CleanRecord struct {
	EntityID      string  `json:"entity_id"`
	EntityName    string  `json:"entity_name"`
	Modality      string  `json:"modality"`
	Value         float64 `json:"value"`
	IsDirectAward bool    `json:"is_direct_award"`
}

// EntityProfile aggregates every CleanRecord sharing an entity id.
// Profiles are immutable once computed; cluster membership lives in the
// segmentation result, not here.
type EntityProfile struct {
	EntityID         string  `json:"entity_id"`
	EntityName       string  `json:"entity_name"`
	TotalValue       float64 `json:"total_value"`
	MeanValue        float64 `json:"mean_value"`
	ContractCount    int     `json:"contract_count"`
	DirectAwardRatio float64 `json:"direct_award_ratio"`
}

// ClusterCentroid is the per-cluster mean of the raw (unscaled) features,
// reported in original units for interpretability.
type ClusterCentroid struct {
	Cluster          int     `json:"cluster"`
	Size             int     `json:"size"`
	TotalValue       float64 `json:"total_value"`
	ContractCount    float64 `json:"contract_count"`
	DirectAwardRatio float64 `json:"direct_award_ratio"`
}
