// Package config loads the dicomquery client configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment overrides (MCP_SERVER_URL, DICOMQUERY_TRANSPORT,
// DICOMQUERY_LOG_LEVEL, DICOMQUERY_AUTH_TOKEN). Credential fields may hold
// ${VAR} or secretref:<provider>:<ref> values, resolved after layering.
//
//	endpoint: http://127.0.0.1:8000/sse/
//	transport: sse
//	max_sessions: 4
//	cache:
//	  enabled: true
//	  key_by_endpoint: true
//	auth:
//	  type: bearer
//	  token: secretref:file:pacs_token
//	secrets:
//	  providers:
//	    file:
//	      dir: /run/secrets
package config
