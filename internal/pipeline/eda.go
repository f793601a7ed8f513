package pipeline

import (
	"sort"

	"github.com/auditlab/secop-cli/internal/model"
)

// ModalityCount is one entry of the modality frequency ranking.
type ModalityCount struct {
	Modality string `json:"modality"`
	Count    int    `json:"count"`
}

// HistogramBucket is one linear-scale bucket of the value distribution.
// Log-scale display is a presentation concern.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// EDASummary is the exploratory view of a cleaned dataset handed to the
// presentation layer.
type EDASummary struct {
	Records        int               `json:"records"`
	TopModalities  []ModalityCount   `json:"top_modalities"`
	ValueHistogram []HistogramBucket `json:"value_histogram"`
}

// Summarize computes the top-N modality frequencies and a value histogram
// over the clean records.
func Summarize(records []model.CleanRecord, topN, bins int) EDASummary {
	return EDASummary{
		Records:        len(records),
		TopModalities:  topModalities(records, topN),
		ValueHistogram: valueHistogram(records, bins),
	}
}

// topModalities ranks modalities by frequency, most frequent first. Ties
// break alphabetically so the ranking is stable.
func topModalities(records []model.CleanRecord, n int) []ModalityCount {
	freq := make(map[string]int)
	for _, r := range records {
		freq[r.Modality]++
	}

	counts := make([]ModalityCount, 0, len(freq))
	for m, c := range freq {
		counts = append(counts, ModalityCount{Modality: m, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Modality < counts[j].Modality
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// valueHistogram buckets contract values into bins equal-width buckets over
// [min, max]. A degenerate range produces a single bucket.
func valueHistogram(records []model.CleanRecord, bins int) []HistogramBucket {
	if len(records) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := records[0].Value, records[0].Value
	for _, r := range records[1:] {
		if r.Value < lo {
			lo = r.Value
		}
		if r.Value > hi {
			hi = r.Value
		}
	}

	if lo == hi {
		return []HistogramBucket{{Low: lo, High: hi, Count: len(records)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]HistogramBucket, bins)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	buckets[bins-1].High = hi

	for _, r := range records {
		idx := int((r.Value - lo) / width)
		if idx >= bins {
			idx = bins - 1 // max value lands in the last bucket
		}
		buckets[idx].Count++
	}
	return buckets
}
