// Package rest provides a small, composable HTTP request/response client
// with per-request retry policies, a closed error taxonomy, and pluggable
// transports.
//
// Execution modes
//   - Execute performs exactly one transport attempt and hands back whatever
//     came over the wire. Non-2xx statuses are not errors at this level.
//   - ExecuteChecked loops attempts according to the request's RetryPolicy.
//     Only HTTP-status rejections enrolled in the policy are retried;
//     transport failures and timeouts always surface immediately. A terminal
//     non-2xx response becomes a Rejected error.
//   - ExecuteJSONChecked and ExecuteJSONDirect layer JSON decoding on top.
//     Decode failures surface as Parse errors and are never retried.
//
// Errors
//   - Every failure is a *RestError with exactly one ErrorKind: connect,
//     send, receive, timeout, rejected, parse, internal, or mock_transport.
//   - Rejected errors are flagged retryable for 5xx statuses; parse and
//     internal errors never are.
//
// Backoff
//   - Controlled via Builder.WithRetryBackoff. Sleeps between checked
//     attempts are exponential with full jitter, capped at 30 seconds.
//   - A zero base disables pacing, which keeps retry loops deterministic
//     under test transports.
package rest
