package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/jonwraymond/dicomquery/internal/pacstest"
	"github.com/jonwraymond/dicomquery/query"
	"github.com/jonwraymond/dicomquery/remote"
)

func newTestApp(t *testing.T) (*app, *pacstest.Server, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	srv := pacstest.New()
	inv, err := remote.NewInvoker(remote.NewInMemoryDialer(srv.MCP))
	if err != nil {
		t.Fatalf("NewInvoker: %v", err)
	}
	client, err := query.New(inv, query.DefaultOptions())
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	var out, errOut bytes.Buffer
	return &app{client: client, health: newHealth(inv, client), out: &out, errOut: &errOut}, srv, &out, &errOut
}

func decodeStatus(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, raw)
	}
	return m
}

func TestRun_ToolCommand(t *testing.T) {
	a, _, out, _ := newTestApp(t)

	code := a.run(context.Background(), []string{query.ToolQueryPatients, "-" + query.PatientID, pacstest.PatientJane})
	if code != exitOK {
		t.Fatalf("exit code = %d, output %s", code, out)
	}
	m := decodeStatus(t, out.Bytes())
	if m["status"] != "success" {
		t.Errorf("status = %v", m["status"])
	}
	if !strings.Contains(out.String(), pacstest.PatientJane) {
		t.Errorf("expected patient in output: %s", out)
	}
}

func TestRun_ListArgument(t *testing.T) {
	a, _, out, _ := newTestApp(t)

	ids := pacstest.SOPInstances(pacstest.StudyA, pacstest.SeriesA1)
	code := a.run(context.Background(), []string{
		query.ToolComputeMTF,
		"-study_instance_uid", pacstest.StudyA,
		"-series_instance_uid", pacstest.SeriesA1,
		"-sop_instance_uids", strings.Join(ids, ", "),
	})
	if code != exitOK {
		t.Fatalf("exit code = %d, output %s", code, out)
	}
}

func TestRun_MissingRequiredArgument(t *testing.T) {
	a, _, out, _ := newTestApp(t)

	code := a.run(context.Background(), []string{query.ToolQuerySeries})
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	m := decodeStatus(t, out.Bytes())
	if m["status"] != "error" || m["message"] == "" {
		t.Errorf("expected error envelope, got %v", m)
	}
	if _, ok := m["data"]; ok {
		t.Errorf("error envelope must not carry data: %v", m)
	}
}

func TestRun_ApplicationError(t *testing.T) {
	a, srv, out, _ := newTestApp(t)
	srv.Fail(pacstest.QueryTool, "PACS node offline")

	code := a.run(context.Background(), []string{query.ToolListAllPatients})
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if !strings.Contains(out.String(), "PACS node offline") {
		t.Errorf("expected remote message in output: %s", out)
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{query.ToolQueryStudies, "-Nope", "x"}},
		{"stray argument", []string{query.ToolListNodes, "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _, errOut := newTestApp(t)
			if code := a.run(context.Background(), tt.args); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			if errOut.Len() == 0 {
				t.Error("expected a diagnostic on stderr")
			}
		})
	}
}

func TestRun_Tools(t *testing.T) {
	a, _, out, _ := newTestApp(t)
	if code := a.run(context.Background(), []string{"tools"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, name := range a.client.ToolNames() {
		if !strings.Contains(out.String(), name) {
			t.Errorf("tool %s missing from listing", name)
		}
	}
	if !strings.Contains(out.String(), "-PatientID (required)") {
		t.Errorf("expected required argument marker:\n%s", out)
	}
}

func TestRun_Health(t *testing.T) {
	a, _, out, _ := newTestApp(t)
	if code := a.run(context.Background(), []string{"health"}); code != exitOK {
		t.Fatalf("exit code = %d, output %s", code, out)
	}
	m := decodeStatus(t, out.Bytes())
	if m["status"] != "healthy" {
		t.Errorf("status = %v", m["status"])
	}
	checks, _ := m["checks"].(map[string]any)
	if _, ok := checks["remote"]; !ok {
		t.Errorf("missing remote check: %v", m)
	}
	if _, ok := checks["nodes"]; !ok {
		t.Errorf("missing nodes check: %v", m)
	}
}

func TestRun_HealthUnhealthy(t *testing.T) {
	a, srv, out, _ := newTestApp(t)
	srv.SetNodesText("not json")
	if code := a.run(context.Background(), []string{"health"}); code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if m := decodeStatus(t, out.Bytes()); m["status"] == "healthy" {
		t.Errorf("expected non-healthy report, got %v", m)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b,c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitList = %v", got)
	}
}
