package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonwraymond/dicomquery/result"
)

// Agent tool names.
const (
	ToolListNodes       = "list_dicom_nodes"
	ToolListAllPatients = "list_all_patients"
	ToolQueryPatients   = "query_patients"
	ToolQueryStudies    = "query_studies"
	ToolQuerySeries     = "query_series"
	ToolQueryInstances  = "query_instances"
	ToolAnalyzeSeries   = "analyze_mtf_for_series"
	ToolComputeMTF      = "calculate_mtf_from_instances"
)

// ToolFunc is an agent-callable operation taking loosely typed arguments.
type ToolFunc func(ctx context.Context, args map[string]any) result.Envelope

// Tool describes one agent-callable operation.
type Tool struct {
	Name        string
	Description string
	Required    []string
	Optional    []string
	Func        ToolFunc
}

// Tools returns the agent tool table keyed by tool name.
func (c *Client) Tools() map[string]Tool {
	tools := []Tool{
		{
			Name:        ToolListNodes,
			Description: "Lists the configured DICOM nodes and the current node.",
			Func: func(ctx context.Context, _ map[string]any) result.Envelope {
				return c.ListNodes(ctx).Envelope()
			},
		},
		{
			Name:        ToolListAllPatients,
			Description: "Lists every patient with its id and name.",
			Func: func(ctx context.Context, _ map[string]any) result.Envelope {
				return c.ListAllPatients(ctx).Envelope()
			},
		},
		{
			Name:        ToolQueryPatients,
			Description: "Finds patients by name pattern and/or patient id.",
			Optional:    []string{PatientName, PatientID},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				name, err := optionalString(args, PatientName)
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				id, err := optionalString(args, PatientID)
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.FindPatients(ctx, name, id).Envelope()
			},
		},
		{
			Name:        ToolQueryStudies,
			Description: "Lists the studies of a patient.",
			Required:    []string{PatientID},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				id, err := requiredString(args, PatientID)
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.FindStudies(ctx, id).Envelope()
			},
		},
		{
			Name:        ToolQuerySeries,
			Description: "Lists the series of a study.",
			Required:    []string{"StudyInstanceUID"},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				study, err := requiredString(args, "StudyInstanceUID")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.FindSeries(ctx, study).Envelope()
			},
		},
		{
			Name:        ToolQueryInstances,
			Description: "Lists the instances of a series.",
			Required:    []string{"StudyInstanceUID", "SeriesInstanceUID"},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				study, err := requiredString(args, "StudyInstanceUID")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				series, err := requiredString(args, "SeriesInstanceUID")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.FindInstances(ctx, study, series).Envelope()
			},
		},
		{
			Name:        ToolAnalyzeSeries,
			Description: "Finds every MTF instance in a series and computes their averaged MTF.",
			Required:    []string{"study_instance_uid", "series_instance_uid"},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				study, err := requiredString(args, "study_instance_uid")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				series, err := requiredString(args, "series_instance_uid")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.AnalyzeSeriesSignalQuality(ctx, study, series).Envelope()
			},
		},
		{
			Name:        ToolComputeMTF,
			Description: "Computes the averaged MTF for an explicit list of instances.",
			Required:    []string{"study_instance_uid", "series_instance_uid", "sop_instance_uids"},
			Func: func(ctx context.Context, args map[string]any) result.Envelope {
				study, err := requiredString(args, "study_instance_uid")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				series, err := requiredString(args, "series_instance_uid")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				sops, err := stringList(args, "sop_instance_uids")
				if err != nil {
					return result.ApplicationError(err.Error()).Envelope()
				}
				return c.ComputeFromInstances(ctx, study, series, sops).Envelope()
			},
		},
	}

	table := make(map[string]Tool, len(tools))
	for _, t := range tools {
		table[t.Name] = t
	}
	return table
}

// ToolNames returns the agent tool names in sorted order.
func (c *Client) ToolNames() []string {
	tools := c.Tools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the named agent tool. Unknown tools yield an error envelope.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) result.Envelope {
	tool, ok := c.Tools()[name]
	if !ok {
		return result.ApplicationError(fmt.Sprintf("%v: %s", ErrUnknownTool, name)).Envelope()
	}
	return tool.Func(ctx, args)
}

func optionalString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("query: argument %s must be a string, got %T", key, v)
	}
	return s, nil
}

func requiredString(args map[string]any, key string) (string, error) {
	s, err := optionalString(args, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return s, nil
}

func stringList(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, fmt.Errorf("%w: %s", ErrMissingArgument, key)
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("query: argument %s[%d] must be a string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("query: argument %s must be a list of strings, got %T", key, v)
	}
}
