package remote

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dicomquery/result"
)

const unknownError = result.UnknownErrorMessage

func classifyTool(res *mcp.CallToolResult) result.Result {
	if res == nil {
		return result.Transport(ErrEmptyResponse)
	}

	text, hasText := firstText(res.Content)
	if res.IsError {
		if !hasText || text == "" {
			return result.ApplicationError(unknownError)
		}
		return result.ApplicationError(text)
	}

	if res.StructuredContent != nil {
		return result.Success(unwrapResult(res.StructuredContent))
	}
	if !hasText {
		return result.Success(nil)
	}
	return result.Success(decodeOrRaw(text))
}

func classifyResource(uri string, res *mcp.ReadResourceResult) result.Result {
	if res == nil || len(res.Contents) == 0 || res.Contents[0] == nil {
		return result.Transport(fmt.Errorf("%w: %s", ErrEmptyResource, uri))
	}

	c := res.Contents[0]
	raw := []byte(c.Text)
	if len(raw) == 0 {
		raw = c.Blob
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return result.Transport(fmt.Errorf("remote: decode %s: %w", uri, err))
	}
	return result.Success(data)
}

func firstText(content []mcp.Content) (string, bool) {
	for _, c := range content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text, true
		}
	}
	return "", false
}

// wrappedResultKey is the single key under which services place a
// non-object return value in structured content.
const wrappedResultKey = "result"

// unwrapResult returns the wrapped value when v is an object holding only
// wrappedResultKey, and v unchanged otherwise.
func unwrapResult(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	if inner, ok := m[wrappedResultKey]; ok {
		return inner
	}
	return v
}

// decodeOrRaw returns the JSON value of text, or text itself when it is not
// JSON.
func decodeOrRaw(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}
