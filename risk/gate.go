package risk

import "fmt"

// State classifies current inventory exposure.
type State int

const (
	// StateNormal quotes both sides symmetrically.
	StateNormal State = iota
	// StateSkew biases quoting against the position's sign.
	StateSkew
	// StateFlatten cancels resting orders and quotes one-sided toward flat.
	StateFlatten
	// StateReverseBlock re-flattens after an unwind overshot through zero.
	StateReverseBlock
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateSkew:
		return "SKEW"
	case StateFlatten:
		return "FLATTEN"
	case StateReverseBlock:
		return "REVERSE_BLOCK"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Limits configures the per-ticker inventory thresholds.
type Limits struct {
	MaxLong          int // hard long cap enforced by the pre-order guard
	MaxShort         int // hard short cap (positive magnitude)
	SoftSkew         int // |position| at which quote skew begins
	Flatten          int // |position| at which resting orders are cancelled and unwound
	ReverseTolerance int // |position| considered flat when exiting REVERSE_BLOCK
}

// Validate checks threshold ordering.
func (l Limits) Validate() error {
	if l.Flatten <= 0 {
		return fmt.Errorf("flatten threshold must be > 0, got %d", l.Flatten)
	}
	if l.SoftSkew <= 0 || l.SoftSkew >= l.Flatten {
		return fmt.Errorf("softSkew must be in (0, flatten), got %d", l.SoftSkew)
	}
	if l.ReverseTolerance < 0 {
		return fmt.Errorf("reverseTolerance must be >= 0, got %d", l.ReverseTolerance)
	}
	return nil
}

// Gate maps a freshly read position to a risk state. The previous state
// and position are inputs for hysteresis only: a stale cached state is
// never allowed to override what the current position says, except to
// detect the flatten-overshoot transition into REVERSE_BLOCK.
type Gate struct {
	limits Limits
}

func NewGate(limits Limits) (*Gate, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Gate{limits: limits}, nil
}

// Limits returns the configured thresholds.
func (g *Gate) Limits() Limits { return g.limits }

// Evaluate derives the state for this tick from the current position.
// prev and prevPos come from the previous tick's evaluation.
func (g *Gate) Evaluate(prev State, prevPos, pos int) State {
	mag := abs(pos)

	// An unwind that crossed zero keeps blocking until the position is
	// back inside the tolerance band.
	if prev == StateReverseBlock {
		if mag <= g.limits.ReverseTolerance {
			return StateNormal
		}
		return StateReverseBlock
	}
	if prev == StateFlatten && prevPos != 0 && pos != 0 && sign(prevPos) != sign(pos) {
		if mag <= g.limits.ReverseTolerance {
			return StateNormal
		}
		return StateReverseBlock
	}

	switch {
	case mag >= g.limits.Flatten:
		return StateFlatten
	case mag >= g.limits.SoftSkew:
		return StateSkew
	default:
		return StateNormal
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
