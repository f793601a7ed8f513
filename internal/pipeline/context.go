package pipeline

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/dataset"
	"github.com/auditlab/secop-cli/internal/model"
)

// ErrNoDataset indicates a stage was invoked before any dataset was loaded.
var ErrNoDataset = eris.New("pipeline: no dataset loaded")

// Context owns all derived state for a single analysis run: the loaded
// table, its resolved schema, clean records, entity profiles, and the most
// recent segmentation. Loading a new dataset replaces everything; a re-run
// fully replaces (never merges with) prior state. The Context is owned by
// the caller and is not safe for concurrent use.
type Context struct {
	table    *dataset.Table
	schema   dataset.Schema
	records  []model.CleanRecord
	stats    dataset.CleanStats
	profiles []model.EntityProfile
	seg      *cluster.Result
}

// NewContext returns an empty run context.
func NewContext() *Context {
	return &Context{}
}

// Load resolves the table's schema, cleans it, and aggregates entity
// profiles. Any prior clean records, profiles, and segmentation are
// invalidated first, so a failed load leaves the context empty rather than
// serving stale results.
func (c *Context) Load(t *dataset.Table) error {
	c.table = t
	c.schema = dataset.Resolve(t.Columns)
	c.records = nil
	c.stats = dataset.CleanStats{}
	c.profiles = nil
	c.seg = nil

	records, stats, err := dataset.Clean(t, c.schema)
	if err != nil {
		return err
	}
	c.records = records
	c.stats = stats
	c.profiles = Aggregate(records)

	zap.L().Info("pipeline: dataset loaded",
		zap.Int("rows", stats.Rows),
		zap.Int("clean_records", stats.Kept),
		zap.Int("dropped", stats.Dropped()),
		zap.Int("entities", len(c.profiles)),
		zap.String("value_col", c.schema.ValueCol),
		zap.String("entity_id_col", c.schema.EntityIDCol),
	)

	return nil
}

// Schema returns the resolved column mapping of the loaded dataset.
func (c *Context) Schema() dataset.Schema { return c.schema }

// Stats returns the cleaner's kept/dropped counters for the loaded dataset.
func (c *Context) Stats() dataset.CleanStats { return c.stats }

// Records returns the clean records of the loaded dataset.
func (c *Context) Records() []model.CleanRecord { return c.records }

// Profiles returns the aggregated entity profiles of the loaded dataset.
func (c *Context) Profiles() []model.EntityProfile { return c.profiles }

// Segmentation returns the most recent successful segmentation, or nil when
// the context is unsegmented.
func (c *Context) Segmentation() *cluster.Result { return c.seg }

// EDA summarizes the loaded dataset for the presentation layer.
func (c *Context) EDA(topN, bins int) (EDASummary, error) {
	if c.table == nil {
		return EDASummary{}, ErrNoDataset
	}
	return Summarize(c.records, topN, bins), nil
}

// Segment clusters the entity profiles, replacing any prior segmentation.
// On failure the previous segmentation is discarded but profiles remain
// valid and queryable in an unsegmented state.
func (c *Context) Segment(opts cluster.Options) (*cluster.Result, error) {
	if c.table == nil {
		return nil, ErrNoDataset
	}
	c.seg = nil

	res, err := cluster.Segment(c.profiles, opts)
	if err != nil {
		return nil, err
	}
	c.seg = res
	return res, nil
}
