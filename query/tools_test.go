package query

import (
	"context"
	"strings"
	"testing"

	"github.com/jonwraymond/dicomquery/internal/pacstest"
	"github.com/jonwraymond/dicomquery/result"
)

func TestTools_Table(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	want := []string{
		ToolAnalyzeSeries,
		ToolComputeMTF,
		ToolListAllPatients,
		ToolListNodes,
		ToolQueryInstances,
		ToolQueryPatients,
		ToolQuerySeries,
		ToolQueryStudies,
	}
	got := f.client.ToolNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ToolNames() = %v, want %v", got, want)
	}
	for name, tool := range f.client.Tools() {
		if tool.Description == "" || tool.Func == nil {
			t.Errorf("tool %s is incomplete", name)
		}
	}
}

func TestCall(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	ctx := context.Background()
	sops := pacstest.SOPInstances(pacstest.StudyA, pacstest.SeriesA1)

	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		wantStatus string
		wantMsg    string
	}{
		{"nodes", ToolListNodes, nil, result.StatusSuccess, ""},
		{"all patients", ToolListAllPatients, nil, result.StatusSuccess, ""},
		{"patients by name", ToolQueryPatients, map[string]any{PatientName: "ROE*"}, result.StatusSuccess, ""},
		{"patient name not a string", ToolQueryPatients, map[string]any{PatientName: 7}, result.StatusError, "must be a string"},
		{"studies", ToolQueryStudies, map[string]any{PatientID: pacstest.PatientJane}, result.StatusSuccess, ""},
		{"studies missing id", ToolQueryStudies, map[string]any{}, result.StatusError, "missing argument: PatientID"},
		{"series", ToolQuerySeries, map[string]any{"StudyInstanceUID": pacstest.StudyA}, result.StatusSuccess, ""},
		{"instances", ToolQueryInstances, map[string]any{
			"StudyInstanceUID":  pacstest.StudyA,
			"SeriesInstanceUID": pacstest.SeriesA1,
		}, result.StatusSuccess, ""},
		{"instances missing series", ToolQueryInstances, map[string]any{"StudyInstanceUID": pacstest.StudyA}, result.StatusError, "SeriesInstanceUID"},
		{"analyze", ToolAnalyzeSeries, map[string]any{
			"study_instance_uid":  pacstest.StudyA,
			"series_instance_uid": pacstest.SeriesA1,
		}, result.StatusSuccess, ""},
		{"analyze unknown series", ToolAnalyzeSeries, map[string]any{
			"study_instance_uid":  pacstest.StudyA,
			"series_instance_uid": "9.9",
		}, result.StatusError, "not found"},
		{"compute from loose list", ToolComputeMTF, map[string]any{
			"study_instance_uid":  pacstest.StudyA,
			"series_instance_uid": pacstest.SeriesA1,
			"sop_instance_uids":   []any{sops[0], sops[1]},
		}, result.StatusSuccess, ""},
		{"compute empty list", ToolComputeMTF, map[string]any{
			"study_instance_uid":  pacstest.StudyA,
			"series_instance_uid": pacstest.SeriesA1,
			"sop_instance_uids":   []any{},
		}, result.StatusError, ErrNoInstances.Error()},
		{"compute list of numbers", ToolComputeMTF, map[string]any{
			"study_instance_uid":  pacstest.StudyA,
			"series_instance_uid": pacstest.SeriesA1,
			"sop_instance_uids":   []any{1, 2},
		}, result.StatusError, "must be a string"},
		{"unknown tool", "drop_database", nil, result.StatusError, "unknown tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := f.client.Call(ctx, tt.tool, tt.args)
			if env.Status != tt.wantStatus {
				t.Fatalf("Status = %q, want %q (%+v)", env.Status, tt.wantStatus, env)
			}
			if tt.wantMsg != "" && !strings.Contains(env.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", env.Message, tt.wantMsg)
			}
		})
	}
}
