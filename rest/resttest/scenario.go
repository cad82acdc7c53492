package resttest

import (
	"time"

	"github.com/gaborage/go-restkit/rest"
)

// Scenario scripts an ordered sequence of outcomes. Scenario steps are served
// ahead of plainly pushed behaviors, so a scenario describes the whole shape
// of a test case while individual behaviors cover ad-hoc faults.
type Scenario struct {
	steps []Behavior
}

// NewScenario creates an empty scenario.
func NewScenario() *Scenario {
	return &Scenario{}
}

// Pass appends a step that serves the next queued response.
func (s *Scenario) Pass() *Scenario {
	s.steps = append(s.steps, Pass())
	return s
}

// Delay appends a step that blocks for d before serving a response.
func (s *Scenario) Delay(d time.Duration) *Scenario {
	s.steps = append(s.steps, Delay(d))
	return s
}

// Reject appends a step that fails with a Rejected error.
func (s *Scenario) Reject(status int, reason string) *Scenario {
	s.steps = append(s.steps, Reject(status, reason))
	return s
}

// DropResponse appends a step that fails with a non-retryable Timeout.
func (s *Scenario) DropResponse() *Scenario {
	s.steps = append(s.steps, DropResponse())
	return s
}

// Replay appends a step that extends the default response queue with frames
// before serving.
func (s *Scenario) Replay(frames ...*rest.Response) *Scenario {
	s.steps = append(s.steps, Replay(frames...))
	return s
}

// Len returns the number of scripted steps.
func (s *Scenario) Len() int {
	return len(s.steps)
}
