// Package remote executes operations against an MCP query service.
//
// Every call opens its own client session through a [Dialer], performs one
// tools/call or resources/read, and closes the session on every exit path.
// Outcomes are classified once, here, into a [result.Result]:
//
//   - session set-up failure, or a call that got no response: transport
//     error
//   - JSON-RPC error response (unknown tool, invalid params, unknown
//     resource): application error carrying the response message
//   - tool result flagged IsError: application error carrying the first text
//     content, or "unknown error"
//   - anything else: success carrying structured content, else the
//     JSON-decoded first text content, else the raw text
//
// The invoker never retries, backs off, or imposes its own timeout. Callers
// bound a call with the context they pass in. WithMaxSessions caps how many
// sessions are open at once; calls over the cap wait for a slot.
package remote
