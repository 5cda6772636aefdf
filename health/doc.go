// Package health reports whether the remote query service is usable.
//
// A Checker reports a Status: Healthy, Degraded or Unhealthy.
// RemoteChecker pings the service over a fresh session; ResultChecker turns
// any operation returning a result.Result into a check. Aggregator runs
// several checks concurrently under one deadline and folds them into a
// Report:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewRemoteChecker("pacs", invoker, health.RemoteCheckerConfig{}))
//	agg.Register(health.NewResultChecker("nodes", client.ListNodes))
//	report := agg.Report(ctx)
package health
