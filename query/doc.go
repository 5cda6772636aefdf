// Package query is the hierarchical PACS query facade.
//
// A Client resolves Patient, Study, Series and Instance lookups through a
// single query tool on the remote service, caching successful lookups for
// the life of the client. Derived computations (signal-quality analysis)
// always reach the remote service.
//
// Every operation returns a [result.Result]; call Envelope on it for the
// two-field form handed to agents. No operation returns a Go error or
// panics.
//
// Usage:
//
//	inv, _ := remote.NewInvoker(dial)
//	c, _ := query.New(inv, query.DefaultOptions())
//	studies := c.FindStudies(ctx, "SN201033")
package query
