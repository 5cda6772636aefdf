// Package auth attaches credentials to requests sent to the remote query
// service.
//
// Credentials come from a TokenSource: a static token, or an HS256 JWT
// minted locally and refreshed before it expires. NewTransport applies them
// to every outgoing request of an http.Client, as a bearer Authorization
// header or, for API keys, an X-API-Key header.
package auth
