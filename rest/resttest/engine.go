package resttest

import (
	"context"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gaborage/go-restkit/rest"
)

// Phase is the engine's observable lifecycle state.
type Phase string

const (
	// PhaseIdle means no call is in flight.
	PhaseIdle Phase = "idle"
	// PhaseBusy means a call has been recorded outbound and not yet resolved.
	PhaseBusy Phase = "busy"
	// PhaseError means the most recent call resolved to a fault.
	PhaseError Phase = "error"
)

// routeKey scopes a response queue to an exact (method, URL) pair. No path
// templating, no query normalization.
type routeKey struct {
	method string
	url    string
}

// LoggedRequest is one outbound log entry.
type LoggedRequest struct {
	Method  string
	URL     string
	Headers []rest.Header
	Body    []byte
}

// LoggedResponse is one inbound log entry.
type LoggedResponse struct {
	Status  int
	Headers []rest.Header
	Body    []byte
	Elapsed time.Duration
}

// Snapshot is an immutable copy of the engine state, taken under the lock so
// readers never observe a half-updated view.
type Snapshot struct {
	Phase        Phase
	RequestCount int
	LastURL      string
	// LastStatus is 0 until a call resolves with a status.
	LastStatus int
	// LastError is the most recent fault message, cleared on each new call.
	LastError string
	// BehaviorRemaining counts unconsumed scenario steps and behaviors.
	BehaviorRemaining int
	ResponseQueueLen  int
	// RouteQueueLen sums queued responses across all route keys.
	RouteQueueLen int
	OutboundCount int
	InboundCount  int
	// ElapsedTotal accumulates the serving time of resolved responses. The
	// clock starts after any scripted delay.
	ElapsedTotal time.Duration
}

// Engine is an in-memory transport that deterministically replays scripted
// outcomes. One engine per test scenario; all state transitions pass through
// a single mutex, so concurrent calls are safe but interleave between steps.
type Engine struct {
	mu sync.Mutex

	phase        Phase
	requestCount int
	lastURL      string
	lastStatus   int
	lastError    string
	elapsedTotal time.Duration

	plan         Plan
	defaultQueue []*rest.Response
	routeQueues  map[routeKey][]*rest.Response

	outboundLog []LoggedRequest
	inboundLog  []LoggedResponse
}

var _ rest.Transport = (*Engine)(nil)

// NewEngine creates an idle engine with no scripted behavior. Unscripted
// calls serve Pass and fall back to a 200 response with an empty body.
func NewEngine() *Engine {
	return &Engine{
		phase:       PhaseIdle,
		routeQueues: make(map[routeKey][]*rest.Response),
	}
}

// NewEngineWithPlan creates an engine primed with the given plan. The plan is
// copied; later mutations of the caller's plan do not reach the engine.
func NewEngineWithPlan(plan *Plan) *Engine {
	e := NewEngine()
	if plan != nil {
		e.plan = *plan
	}
	return e
}

// FromScenario creates an engine scripted with the scenario's steps.
func FromScenario(scenario *Scenario) *Engine {
	return NewEngineWithPlan(NewPlan().PushScenario(scenario))
}

// Execute implements rest.Transport. Each call consumes at most one scripted
// behavior and resolves it against the response queues.
func (e *Engine) Execute(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	behavior := e.popBehavior()

	// Scripted delays block before anything is recorded; the serving clock
	// starts once the delay has passed.
	if behavior.kind == behaviorDelay {
		time.Sleep(behavior.delay)
	}

	start := time.Now()
	e.recordOutbound(req)

	if err := e.resolveFault(behavior); err != nil {
		return nil, err
	}

	resolved := e.resolveResponse(req, behavior)
	elapsed := time.Since(start)

	// Shallow copy so queued fixtures are never mutated; body bytes are
	// shared with the fixture rather than copied.
	resp := *resolved
	resp.Stats = rest.Stats{ElapsedTime: elapsed}

	e.recordInbound(&resp, elapsed)
	return &resp, nil
}

func (e *Engine) popBehavior() Behavior {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plan.pop()
}

func (e *Engine) recordOutbound(req *rest.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.outboundLog = append(e.outboundLog, LoggedRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	})
	e.requestCount++
	e.lastURL = req.URL
	e.phase = PhaseBusy
	e.lastError = ""
}

// resolveFault turns fault behaviors into taxonomy errors and records them.
// Pass, Delay, and Replay return nil and proceed to response resolution.
func (e *Engine) resolveFault(behavior Behavior) error {
	var restErr *rest.RestError
	switch behavior.kind {
	case behaviorDrop:
		restErr = rest.NewTimeoutError("transport dropped response", 0, false)
	case behaviorConnectFailure:
		restErr = rest.NewConnectError(behavior.message, behavior.status, behavior.retryable)
	case behaviorSendFailure:
		restErr = rest.NewSendError(behavior.message, behavior.status, behavior.retryable)
	case behaviorReceiveFailure:
		restErr = rest.NewReceiveError(behavior.message, behavior.status, behavior.retryable)
	case behaviorTimeout:
		restErr = rest.NewTimeoutError(behavior.message, behavior.status, behavior.retryable)
	case behaviorInternal:
		restErr = rest.NewInternalError(behavior.message, nil)
	case behaviorReject:
		restErr = rest.NewRejectedError(behavior.status, behavior.message, true)
	default:
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.phase = PhaseError
	e.lastError = restErr.Message()
	e.lastStatus = restErr.StatusCode()
	return restErr
}

// resolveResponse picks the response for a serving behavior: route queue
// first, then the default queue, then the 200/empty fallback.
func (e *Engine) resolveResponse(req *rest.Request, behavior Behavior) *rest.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	if behavior.kind == behaviorReplay {
		e.defaultQueue = append(e.defaultQueue, behavior.frames...)
	}

	key := routeKey{method: req.Method, url: req.URL}
	if queue := e.routeQueues[key]; len(queue) > 0 {
		resp := queue[0]
		e.routeQueues[key] = queue[1:]
		return resp
	}
	if len(e.defaultQueue) > 0 {
		resp := e.defaultQueue[0]
		e.defaultQueue = e.defaultQueue[1:]
		return resp
	}
	return &rest.Response{StatusCode: nethttp.StatusOK}
}

func (e *Engine) recordInbound(resp *rest.Response, elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inboundLog = append(e.inboundLog, LoggedResponse{
		Status:  resp.StatusCode,
		Headers: resp.Headers,
		Body:    resp.Body,
		Elapsed: elapsed,
	})
	e.lastStatus = resp.StatusCode
	e.phase = PhaseIdle
	e.elapsedTotal += elapsed
}

// QueueResponse appends a response to the default queue.
func (e *Engine) QueueResponse(resp *rest.Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaultQueue = append(e.defaultQueue, resp)
}

// QueueResponseFor appends a response to the queue for an exact (method, URL)
// pair. Route queues win over the default queue.
func (e *Engine) QueueResponseFor(method, url string, resp *rest.Response) {
	key := routeKey{method: method, url: url}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routeQueues[key] = append(e.routeQueues[key], resp)
}

// QueueGet queues a response for GET url.
func (e *Engine) QueueGet(url string, resp *rest.Response) {
	e.QueueResponseFor(nethttp.MethodGet, url, resp)
}

// QueuePost queues a response for POST url.
func (e *Engine) QueuePost(url string, resp *rest.Response) {
	e.QueueResponseFor(nethttp.MethodPost, url, resp)
}

// QueueErrorResponse queues a non-2xx response with a raw body for GET url.
func (e *Engine) QueueErrorResponse(url string, status int, body []byte) {
	e.QueueErrorResponseFor(nethttp.MethodGet, url, status, body)
}

// QueueErrorResponseFor queues a non-2xx response with a raw body for an
// exact (method, URL) pair.
func (e *Engine) QueueErrorResponseFor(method, url string, status int, body []byte) {
	e.QueueResponseFor(method, url, NewResponse(status, body))
}

// QueueErrorText queues a non-2xx response with a plain-text body for GET url.
func (e *Engine) QueueErrorText(url string, status int, message string) {
	e.QueueErrorResponse(url, status, []byte(message))
}

// QueueErrorJSON queues a non-2xx response whose body is the JSON encoding of
// payload, for GET url. Encoding failures surface as a mock transport fault.
func (e *Engine) QueueErrorJSON(url string, status int, payload any) error {
	resp, err := JSONResponse(status, payload)
	if err != nil {
		return err
	}
	e.QueueGet(url, resp)
	return nil
}

// PushBehavior appends a behavior to the plain queue.
func (e *Engine) PushBehavior(b Behavior) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plan.Push(b)
}

// PushScenario appends the scenario's steps to the scenario queue.
func (e *Engine) PushScenario(scenario *Scenario) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plan.PushScenario(scenario)
}

// Snapshot returns a consistent copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	routeLen := 0
	for _, queue := range e.routeQueues {
		routeLen += len(queue)
	}

	return Snapshot{
		Phase:             e.phase,
		RequestCount:      e.requestCount,
		LastURL:           e.lastURL,
		LastStatus:        e.lastStatus,
		LastError:         e.lastError,
		BehaviorRemaining: e.plan.remaining(),
		ResponseQueueLen:  len(e.defaultQueue),
		RouteQueueLen:     routeLen,
		OutboundCount:     len(e.outboundLog),
		InboundCount:      len(e.inboundLog),
		ElapsedTotal:      e.elapsedTotal,
	}
}

// OutboundLog returns a copy of the outbound log entries in call order.
func (e *Engine) OutboundLog() []LoggedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]LoggedRequest(nil), e.outboundLog...)
}

// InboundLog returns a copy of the inbound log entries in call order.
func (e *Engine) InboundLog() []LoggedResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]LoggedResponse(nil), e.inboundLog...)
}

// OutboundCount returns the number of requests recorded outbound.
func (e *Engine) OutboundCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.outboundLog)
}

// InboundCount returns the number of responses recorded inbound.
func (e *Engine) InboundCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inboundLog)
}

// ClearLogs drops both logs. Counters, queues, and phase are untouched.
func (e *Engine) ClearLogs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outboundLog = nil
	e.inboundLog = nil
}
