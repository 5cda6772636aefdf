package query_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/dicomquery/internal/pacstest"
	"github.com/jonwraymond/dicomquery/query"
	"github.com/jonwraymond/dicomquery/remote"
)

func ExampleClient_FindStudies() {
	srv := pacstest.New()
	inv, _ := remote.NewInvoker(remote.NewInMemoryDialer(srv.MCP))
	client, _ := query.New(inv, query.DefaultOptions())
	ctx := context.Background()

	first := client.FindStudies(ctx, pacstest.PatientJane)
	second := client.FindStudies(ctx, pacstest.PatientJane)

	fmt.Println(first.Envelope().Status, len(first.Data.([]any)))
	fmt.Println(second.Envelope().Status, srv.Calls(pacstest.QueryTool))
	// Output:
	// success 2
	// success 1
}

func ExampleClient_Call() {
	srv := pacstest.New()
	inv, _ := remote.NewInvoker(remote.NewInMemoryDialer(srv.MCP))
	client, _ := query.New(inv, query.DefaultOptions())

	env := client.Call(context.Background(), query.ToolQueryStudies, map[string]any{})
	fmt.Println(env.Status, env.Message)
	// Output:
	// error query: missing argument: PatientID
}
