package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Dispenser metric names
const (
	MetricNameDispenseOutcomes  = "dispense_outcomes_total"
	MetricNameSlotMutations     = "slot_mutations_total"
	MetricNameAlarmCacheLookups = "alarm_cache_lookups_total"
	MetricNameSkipSweepMarked   = "skip_sweep_marked_total"
	MetricNameSkipSweepRuns     = "skip_sweep_runs_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextDispenseOutcomes  = "Dispense attempts by outcome"
	HelpTextSlotMutations     = "Committed slot replace and clear operations"
	HelpTextAlarmCacheLookups = "Alarm projection cache lookups by result"
	HelpTextSkipSweepMarked   = "Scheduled events recorded as Skipped by the sweeper"
	HelpTextSkipSweepRuns     = "Missed-dose sweeps by result"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOutcome   = "outcome"
	LabelOperation = "operation"
	LabelResult    = "result"
)

// Label values
const (
	OperationReplace = "replace"
	OperationClear   = "clear"

	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultSuccess = "success"
	ResultError   = "error"

	// PathUnmatched labels requests that matched no route
	PathUnmatched = "unmatched"
)

// HTTPLatencyBuckets are tuned for single round-trip store operations
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5}
