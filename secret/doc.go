// Package secret resolves credentials referenced from configuration.
//
// A configuration value may contain:
//   - ${VAR} environment references, expanded strictly (see ExpandEnvStrict)
//   - secret references of the form secretref:<provider>:<ref>, either as the
//     whole value or inline ("Bearer secretref:file:pacs_token")
//
// Two providers are built in: "env" reads an environment variable and
// "file" reads a file, optionally relative to a base directory such as
// /run/secrets. Further providers plug in through Registry.
package secret
