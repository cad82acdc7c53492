package resttest

import (
	"time"

	"github.com/gaborage/go-restkit/rest"
)

type behaviorKind int

const (
	behaviorPass behaviorKind = iota
	behaviorDelay
	behaviorReject
	behaviorDrop
	behaviorConnectFailure
	behaviorSendFailure
	behaviorReceiveFailure
	behaviorTimeout
	behaviorInternal
	behaviorReplay
)

// Behavior is one scripted outcome for a single simulated call. Behaviors are
// consumed FIFO, at most once each; an engine with no queued behavior serves
// Pass.
type Behavior struct {
	kind      behaviorKind
	delay     time.Duration
	status    int
	message   string
	retryable bool
	frames    []*rest.Response
}

// Pass serves the next queued response without any fault.
func Pass() Behavior {
	return Behavior{kind: behaviorPass}
}

// Delay blocks the call for d before serving a response. The delay itself
// never fails the call.
func Delay(d time.Duration) Behavior {
	return Behavior{kind: behaviorDelay, delay: d}
}

// Reject fails the call with a Rejected error carrying the given status and
// reason. Mock rejections are always flagged retryable; whether a retry
// actually happens is the client policy's decision.
func Reject(status int, reason string) Behavior {
	return Behavior{kind: behaviorReject, status: status, message: reason}
}

// DropResponse fails the call with a non-retryable Timeout, simulating a
// transport that went silent after the request was sent.
func DropResponse() Behavior {
	return Behavior{kind: behaviorDrop}
}

// ConnectFailure fails the call with a Connect error.
func ConnectFailure(reason string, status int, retryable bool) Behavior {
	return Behavior{kind: behaviorConnectFailure, status: status, message: reason, retryable: retryable}
}

// SendFailure fails the call with a Send error.
func SendFailure(reason string, status int, retryable bool) Behavior {
	return Behavior{kind: behaviorSendFailure, status: status, message: reason, retryable: retryable}
}

// ReceiveFailure fails the call with a Receive error.
func ReceiveFailure(reason string, status int, retryable bool) Behavior {
	return Behavior{kind: behaviorReceiveFailure, status: status, message: reason, retryable: retryable}
}

// TimeoutFailure fails the call with a Timeout error.
func TimeoutFailure(reason string, status int, retryable bool) Behavior {
	return Behavior{kind: behaviorTimeout, status: status, message: reason, retryable: retryable}
}

// InternalFailure fails the call with an Internal error. Internal errors are
// never retryable.
func InternalFailure(reason string) Behavior {
	return Behavior{kind: behaviorInternal, message: reason}
}

// Replay extends the engine's default response queue with frames, then serves
// as Pass would. Replayed frames land at the back of the queue.
func Replay(frames ...*rest.Response) Behavior {
	return Behavior{kind: behaviorReplay, frames: frames}
}
