// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on the /debug/vars endpoint of the API server.
package metrics

import "expvar"

// Run counters.
var (
	RunsTotal         = expvar.NewInt("leadsegment_runs_total")
	RunErrors         = expvar.NewInt("leadsegment_run_errors_total")
	ContactsProcessed = expvar.NewInt("leadsegment_contacts_processed_total")
	ContactsSegmented = expvar.NewInt("leadsegment_contacts_segmented_total")
)

// Cache counters.
var (
	CacheHits   = expvar.NewInt("leadsegment_cache_hits_total")
	CacheMisses = expvar.NewInt("leadsegment_cache_misses_total")
	CacheErrors = expvar.NewInt("leadsegment_cache_errors_total")
)

// Surface counters.
var (
	HTTPRequests = expvar.NewInt("leadsegment_http_requests_total")
	MCPCalls     = expvar.NewInt("leadsegment_mcp_calls_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Add increments the given counter by n.
func Add(counter *expvar.Int, n int64) { counter.Add(n) }
