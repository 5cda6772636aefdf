package query

import (
	"context"

	"github.com/jonwraymond/dicomquery/cache"
	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/result"
)

// Filter attribute names.
const (
	PatientID   = "PatientID"
	PatientName = "PatientName"
)

// Invoker executes remote operations. *remote.Invoker implements it.
type Invoker interface {
	InvokeOperation(ctx context.Context, meta observe.OperationMeta, params map[string]any) result.Result
	ReadResource(ctx context.Context, uri string) result.Result
	Endpoint() string
}

// Client is the query facade. The cache it owns lives exactly as long as the
// Client.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one remote lookup per
//   cache key is in flight.
// - Errors: failures are reported in the Result, never as Go errors.
type Client struct {
	inv   Invoker
	opts  Options
	cache *cache.CacheMiddleware
}

// New creates a Client that reaches the remote service through inv.
func New(inv Invoker, opts Options) (*Client, error) {
	if inv == nil {
		return nil, ErrNilInvoker
	}
	opts = opts.withDefaults()
	return &Client{
		inv:   inv,
		opts:  opts,
		cache: cache.NewCacheMiddleware(opts.Cache, opts.Keyer, opts.Policy, cache.WithLogger(opts.Logger)),
	}, nil
}

// Resolve looks up level with filters, serving repeated lookups from the
// cache. Only successful lookups are cached.
func (c *Client) Resolve(ctx context.Context, level string, filters cache.Filters) result.Result {
	q := cache.Query{
		Endpoint: c.inv.Endpoint(),
		Level:    level,
		Filters:  filters,
	}
	return c.cache.Execute(ctx, q, c.fetch)
}

func (c *Client) fetch(ctx context.Context, q cache.Query) result.Result {
	params := make(map[string]any, len(q.Filters))
	for k, v := range q.Filters {
		params[k] = v
	}
	meta := observe.OperationMeta{Name: c.opts.QueryTool, Level: q.Level}
	return c.inv.InvokeOperation(ctx, meta, map[string]any{
		"query_level":  q.Level,
		"query_params": params,
	})
}

// FindPatients looks up patients by name pattern and/or id. Empty arguments
// are left out of the filters.
func (c *Client) FindPatients(ctx context.Context, namePattern, patientID string) result.Result {
	filters := cache.Filters{}
	if namePattern != "" {
		filters[PatientName] = namePattern
	}
	if patientID != "" {
		filters[PatientID] = patientID
	}
	return c.Resolve(ctx, PatientsLevel, filters)
}

// ListAllPatients lists every patient known to the remote service.
func (c *Client) ListAllPatients(ctx context.Context) result.Result {
	return c.Resolve(ctx, PatientsLevel, cache.Filters{})
}

// FindStudies lists the studies of a patient, or every study when patientID
// is empty.
func (c *Client) FindStudies(ctx context.Context, patientID string) result.Result {
	filters := cache.Filters{}
	if patientID != "" {
		filters[PatientID] = patientID
	}
	return c.Resolve(ctx, StudiesLevel, filters)
}

// FindSeries lists the series of a study.
func (c *Client) FindSeries(ctx context.Context, studyID string) result.Result {
	return c.Resolve(ctx, SeriesLevel(studyID), cache.Filters{})
}

// FindInstances lists the instances of a series.
func (c *Client) FindInstances(ctx context.Context, studyID, seriesID string) result.Result {
	return c.Resolve(ctx, InstancesLevel(studyID, seriesID), cache.Filters{})
}

// ListNodes reads the configured PACS nodes. Never cached.
func (c *Client) ListNodes(ctx context.Context) result.Result {
	return c.inv.ReadResource(ctx, c.opts.NodesResource)
}

// AnalyzeSeriesSignalQuality computes the averaged MTF over a whole series.
// Never cached.
func (c *Client) AnalyzeSeriesSignalQuality(ctx context.Context, studyID, seriesID string) result.Result {
	meta := observe.OperationMeta{Name: c.opts.AnalyzeTool}
	return c.inv.InvokeOperation(ctx, meta, map[string]any{
		"study_instance_uid":  studyID,
		"series_instance_uid": seriesID,
	})
}

// ComputeFromInstances computes the averaged MTF over explicit instances of
// a series. Never cached. An empty instanceIDs is rejected without a remote
// call.
func (c *Client) ComputeFromInstances(ctx context.Context, studyID, seriesID string, instanceIDs []string) result.Result {
	if len(instanceIDs) == 0 {
		return result.ApplicationError(ErrNoInstances.Error())
	}
	meta := observe.OperationMeta{Name: c.opts.ComputeTool}
	return c.inv.InvokeOperation(ctx, meta, map[string]any{
		"study_instance_uid":  studyID,
		"series_instance_uid": seriesID,
		"sop_instance_uids":   append([]string(nil), instanceIDs...),
	})
}

// CacheStats reports lookup cache activity.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}
