package query

import (
	"github.com/jonwraymond/dicomquery/cache"
	"github.com/jonwraymond/dicomquery/observe"
)

// Remote operation names used by default.
const (
	DefaultQueryTool     = "qido_web_query"
	DefaultAnalyzeTool   = "analyze_mtf_for_series"
	DefaultComputeTool   = "calculate_mtf_from_instances"
	DefaultNodesResource = "resource://dicom_nodes"
)

// Options configures a Client.
type Options struct {
	// QueryTool resolves every hierarchy lookup.
	QueryTool string
	// AnalyzeTool computes signal quality for a whole series.
	AnalyzeTool string
	// ComputeTool computes signal quality for explicit instances.
	ComputeTool string
	// NodesResource lists the configured PACS nodes.
	NodesResource string

	// Policy controls lookup caching. The zero Policy disables caching.
	Policy cache.Policy
	// Cache stores lookup results. Nil uses a fresh in-memory cache.
	Cache cache.Cache
	// Keyer derives cache keys. Nil uses cache.DefaultKeyer.
	Keyer cache.Keyer

	// Logger receives cache hit/miss logs at debug level.
	Logger observe.Logger
}

// DefaultOptions returns options with the standard operation names and
// caching enabled.
func DefaultOptions() Options {
	return Options{
		QueryTool:     DefaultQueryTool,
		AnalyzeTool:   DefaultAnalyzeTool,
		ComputeTool:   DefaultComputeTool,
		NodesResource: DefaultNodesResource,
		Policy:        cache.DefaultPolicy(),
	}
}

func (o Options) withDefaults() Options {
	if o.QueryTool == "" {
		o.QueryTool = DefaultQueryTool
	}
	if o.AnalyzeTool == "" {
		o.AnalyzeTool = DefaultAnalyzeTool
	}
	if o.ComputeTool == "" {
		o.ComputeTool = DefaultComputeTool
	}
	if o.NodesResource == "" {
		o.NodesResource = DefaultNodesResource
	}
	if o.Logger == nil {
		o.Logger = observe.NopLogger()
	}
	return o
}
