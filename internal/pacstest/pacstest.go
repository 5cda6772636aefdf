// Package pacstest runs an in-process MCP query service backed by a small
// fixed PACS dataset, for tests.
package pacstest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Operation names served by the fake service.
const (
	QueryTool        = "qido_web_query"
	AnalyzeTool      = "analyze_mtf_for_series"
	ComputeTool      = "calculate_mtf_from_instances"
	NodesResourceURI = "resource://dicom_nodes"
)

// Fixture identifiers.
const (
	PatientJane    = "SN201033"
	PatientRichard = "SN201034"
	StudyA         = "1.2.840.1.1"
	StudyB         = "1.2.840.1.2"
	StudyC         = "1.2.840.2.1"
	SeriesA1       = "1.2.840.1.1.1"
	SeriesA2       = "1.2.840.1.1.2"
)

// Server is the fake query service.
type Server struct {
	MCP *mcp.Server

	mu        sync.Mutex
	calls     map[string]int
	failures  map[string]string
	nodesText string
	gate      chan struct{}
	entered   chan string
}

// New builds a Server with every tool and the node resource registered.
func New() *Server {
	s := &Server{
		MCP:       mcp.NewServer(&mcp.Implementation{Name: "pacstest", Version: "0.0.1"}, nil),
		calls:     make(map[string]int),
		failures:  make(map[string]string),
		nodesText: `{"current_node":"orthanc","nodes":[{"name":"orthanc","ae_title":"ORTHANC","host":"127.0.0.1","port":4242}]}`,
		entered:   make(chan string, 64),
	}

	mcp.AddTool(s.MCP, &mcp.Tool{Name: QueryTool, Description: "QIDO-RS query"}, s.handleQuery)
	mcp.AddTool(s.MCP, &mcp.Tool{Name: AnalyzeTool, Description: "MTF for a whole series"}, s.handleAnalyze)
	mcp.AddTool(s.MCP, &mcp.Tool{Name: ComputeTool, Description: "MTF for explicit instances"}, s.handleCompute)
	s.MCP.AddResource(&mcp.Resource{
		URI:      NodesResourceURI,
		Name:     "dicom_nodes",
		MIMEType: "application/json",
	}, s.handleNodes)

	return s
}

// Calls returns how many times the named tool or resource was executed.
func (s *Server) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// Fail makes the named tool report msg as an error until Recover is called.
func (s *Server) Fail(name, msg string) {
	s.mu.Lock()
	s.failures[name] = msg
	s.mu.Unlock()
}

// Recover clears a failure set by Fail.
func (s *Server) Recover(name string) {
	s.mu.Lock()
	delete(s.failures, name)
	s.mu.Unlock()
}

// SetNodesText replaces the raw text served for the node resource.
func (s *Server) SetNodesText(text string) {
	s.mu.Lock()
	s.nodesText = text
	s.mu.Unlock()
}

// Hold blocks every query until the returned release function is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Entered receives the operation name each time a handler starts.
func (s *Server) Entered() <-chan string {
	return s.entered
}

func (s *Server) begin(ctx context.Context, name string) error {
	s.mu.Lock()
	s.calls[name]++
	gate := s.gate
	msg, failing := s.failures[name]
	s.mu.Unlock()

	select {
	case s.entered <- name:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failing {
		return errors.New(msg)
	}
	return nil
}

type queryArgs struct {
	QueryLevel  string         `json:"query_level"`
	QueryParams map[string]any `json:"query_params,omitempty"`
}

func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, args queryArgs) (*mcp.CallToolResult, any, error) {
	if err := s.begin(ctx, QueryTool); err != nil {
		return nil, nil, err
	}
	rows, err := lookup(args.QueryLevel, args.QueryParams)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(rows)
}

type seriesArgs struct {
	StudyInstanceUID  string `json:"study_instance_uid"`
	SeriesInstanceUID string `json:"series_instance_uid"`
}

func (s *Server) handleAnalyze(ctx context.Context, _ *mcp.CallToolRequest, args seriesArgs) (*mcp.CallToolResult, any, error) {
	if err := s.begin(ctx, AnalyzeTool); err != nil {
		return nil, nil, err
	}
	sops, ok := instances[args.StudyInstanceUID+"/"+args.SeriesInstanceUID]
	if !ok {
		return nil, nil, fmt.Errorf("series %s not found in study %s", args.SeriesInstanceUID, args.StudyInstanceUID)
	}
	return jsonResult(mtfReport(args.StudyInstanceUID, args.SeriesInstanceUID, len(sops)))
}

type instancesArgs struct {
	StudyInstanceUID  string   `json:"study_instance_uid"`
	SeriesInstanceUID string   `json:"series_instance_uid"`
	SOPInstanceUIDs   []string `json:"sop_instance_uids"`
}

func (s *Server) handleCompute(ctx context.Context, _ *mcp.CallToolRequest, args instancesArgs) (*mcp.CallToolResult, any, error) {
	if err := s.begin(ctx, ComputeTool); err != nil {
		return nil, nil, err
	}
	if len(args.SOPInstanceUIDs) == 0 {
		return nil, nil, errors.New("no instances given")
	}
	known := make(map[string]bool)
	for _, uid := range instances[args.StudyInstanceUID+"/"+args.SeriesInstanceUID] {
		known[uid] = true
	}
	for _, uid := range args.SOPInstanceUIDs {
		if !known[uid] {
			return nil, nil, fmt.Errorf("instance %s not found", uid)
		}
	}
	return jsonResult(mtfReport(args.StudyInstanceUID, args.SeriesInstanceUID, len(args.SOPInstanceUIDs)))
}

func (s *Server) handleNodes(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.begin(ctx, NodesResourceURI); err != nil {
		return nil, err
	}
	s.mu.Lock()
	text := s.nodesText
	s.mu.Unlock()
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func mtfReport(study, series string, n int) map[string]any {
	return map[string]any{
		"study_instance_uid":  study,
		"series_instance_uid": series,
		"instances_used":      n,
		"mtf50":               0.42,
		"mtf10":               0.81,
	}
}

var patients = []map[string]any{
	{"PatientID": PatientJane, "PatientName": "DOE^JANE"},
	{"PatientID": PatientRichard, "PatientName": "ROE^RICHARD"},
}

var studies = []map[string]any{
	{"StudyInstanceUID": StudyA, "PatientID": PatientJane, "StudyDescription": "CT QA phantom"},
	{"StudyInstanceUID": StudyB, "PatientID": PatientJane, "StudyDescription": "CT QA follow-up"},
	{"StudyInstanceUID": StudyC, "PatientID": PatientRichard, "StudyDescription": "DX chest"},
}

var series = map[string][]string{
	StudyA: {SeriesA1, SeriesA2},
	StudyB: {},
	StudyC: {"1.2.840.2.1.1"},
}

var instances = map[string][]string{
	StudyA + "/" + SeriesA1:  {"1.2.840.1.1.1.1", "1.2.840.1.1.1.2", "1.2.840.1.1.1.3"},
	StudyA + "/" + SeriesA2:  {"1.2.840.1.1.2.1"},
	StudyC + "/1.2.840.2.1.1": {"1.2.840.2.1.1.1"},
}

// SOPInstances returns the fixture instance UIDs of a series.
func SOPInstances(study, seriesUID string) []string {
	return append([]string(nil), instances[study+"/"+seriesUID]...)
}

func lookup(level string, params map[string]any) ([]map[string]any, error) {
	parts := strings.Split(strings.Trim(level, "/"), "/")
	switch {
	case level == "patients":
		return filterRows(patients, params), nil
	case level == "studies":
		return filterRows(studies, params), nil
	case len(parts) == 3 && parts[0] == "studies" && parts[2] == "series":
		uids, ok := series[parts[1]]
		if !ok {
			return nil, fmt.Errorf("study %s not found", parts[1])
		}
		rows := make([]map[string]any, 0, len(uids))
		for _, uid := range uids {
			rows = append(rows, map[string]any{"StudyInstanceUID": parts[1], "SeriesInstanceUID": uid})
		}
		return filterRows(rows, params), nil
	case len(parts) == 5 && parts[0] == "studies" && parts[2] == "series" && parts[4] == "instances":
		uids, ok := instances[parts[1]+"/"+parts[3]]
		if !ok {
			return nil, fmt.Errorf("series %s not found in study %s", parts[3], parts[1])
		}
		rows := make([]map[string]any, 0, len(uids))
		for _, uid := range uids {
			rows = append(rows, map[string]any{"SeriesInstanceUID": parts[3], "SOPInstanceUID": uid})
		}
		return filterRows(rows, params), nil
	default:
		return nil, fmt.Errorf("unsupported query level %q", level)
	}
}

// filterRows keeps rows matching every param. Values are path.Match
// patterns, so "DOE*" matches "DOE^JANE".
func filterRows(rows []map[string]any, params map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if matches(row, params) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row, params map[string]any) bool {
	for k, want := range params {
		got, ok := row[k]
		if !ok {
			return false
		}
		ok, _ = path.Match(fmt.Sprint(want), fmt.Sprint(got))
		if !ok {
			return false
		}
	}
	return true
}
