package resttest

// Plan holds the scripted behaviors for an engine. Scenario steps and plain
// behaviors live in separate FIFO queues with a single consumption rule:
// scenario steps win, then plain behaviors, then Pass.
type Plan struct {
	steps     []Behavior
	behaviors []Behavior
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Push appends a behavior to the plain queue.
func (p *Plan) Push(b Behavior) *Plan {
	p.behaviors = append(p.behaviors, b)
	return p
}

// PushStep appends a single step to the scenario queue.
func (p *Plan) PushStep(b Behavior) *Plan {
	p.steps = append(p.steps, b)
	return p
}

// PushScenario appends all of the scenario's steps to the scenario queue.
func (p *Plan) PushScenario(s *Scenario) *Plan {
	if s != nil {
		p.steps = append(p.steps, s.steps...)
	}
	return p
}

// pop consumes the next behavior: scenario steps first, then the plain
// queue, defaulting to Pass when both are empty.
func (p *Plan) pop() Behavior {
	if len(p.steps) > 0 {
		b := p.steps[0]
		p.steps = p.steps[1:]
		return b
	}
	if len(p.behaviors) > 0 {
		b := p.behaviors[0]
		p.behaviors = p.behaviors[1:]
		return b
	}
	return Pass()
}

// remaining counts behaviors not yet consumed across both queues.
func (p *Plan) remaining() int {
	return len(p.steps) + len(p.behaviors)
}
