package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/jonwraymond/dicomquery/health"
	"github.com/jonwraymond/dicomquery/query"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type app struct {
	client *query.Client
	health *health.Aggregator
	out    io.Writer
	errOut io.Writer
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.errorf("missing command")
		return exitUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "tools":
		return a.listTools()
	case "health":
		report := a.health.Report(ctx)
		if err := a.print(report); err != nil {
			return exitError
		}
		if !report.Healthy() {
			return exitError
		}
		return exitOK
	}

	tool, ok := a.client.Tools()[cmd]
	if !ok {
		a.errorf("unknown command %q", cmd)
		return exitUsage
	}
	toolArgs, err := parseToolArgs(tool, rest, a.errWriter())
	if err != nil {
		return exitUsage
	}

	env := a.client.Call(ctx, tool.Name, toolArgs)
	if err := a.print(env); err != nil {
		return exitError
	}
	if !env.OK() {
		return exitError
	}
	return exitOK
}

// parseToolArgs turns -Name value flags into tool arguments. Only flags the
// user set are passed on, so missing required arguments surface as error
// envelopes from the tool itself. List arguments take comma-separated values.
func parseToolArgs(tool query.Tool, args []string, errOut io.Writer) (map[string]any, error) {
	fs := flag.NewFlagSet(tool.Name, flag.ContinueOnError)
	fs.SetOutput(errOut)

	values := make(map[string]*string)
	for _, name := range tool.Required {
		values[name] = fs.String(name, "", "(required)")
	}
	for _, name := range tool.Optional {
		values[name] = fs.String(name, "", "(optional)")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(errOut, err)
		return nil, err
	}

	out := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		v := *values[f.Name]
		if isListArg(f.Name) {
			out[f.Name] = splitList(v)
			return
		}
		out[f.Name] = v
	})
	return out, nil
}

func isListArg(name string) bool {
	return strings.HasSuffix(name, "_uids")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *app) listTools() int {
	tools := a.client.Tools()
	for _, name := range a.client.ToolNames() {
		t := tools[name]
		fmt.Fprintf(a.out, "%-30s %s\n", name, t.Description)
		for _, arg := range t.Required {
			fmt.Fprintf(a.out, "  -%s (required)\n", arg)
		}
		for _, arg := range t.Optional {
			fmt.Fprintf(a.out, "  -%s\n", arg)
		}
	}
	return exitOK
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		a.errorf("encode output: %v", err)
		return err
	}
	return nil
}

func (a *app) errWriter() io.Writer {
	if a.errOut == nil {
		return io.Discard
	}
	return a.errOut
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintf(a.errWriter(), "dicomquery: "+format+"\n", args...)
}
