package model

// Phase marks which side of the trigger point a Point sits on.
type Phase string

const (
	PhaseAccumulation Phase = "accumulation"
	PhaseRetirement   Phase = "retirement"
)

// Point is one observation of a scenario's balance. Step is an age in
// ModeSolvency and elapsed years in ModeWithdrawalRate.
type Point struct {
	Step     int     `json:"step"`
	Balance  float64 `json:"balance"`
	Scenario string  `json:"scenario"`
	Phase    Phase   `json:"phase"`
}

// Result is the output of one engine run. It is never mutated after the
// engine returns it.
type Result struct {
	Scenario string  `json:"scenario"`
	Mode     Mode    `json:"mode"`
	Points   []Point `json:"points"`

	// FireNumber is the balance considered sufficient to retire.
	FireNumber float64 `json:"fire_number"`
	// TriggerStep is the retirement age (ModeSolvency) or the years of
	// accumulation needed (ModeWithdrawalRate).
	TriggerStep int `json:"trigger_step"`

	// Feasible is false when no retirement point exists.
	Feasible bool `json:"feasible"`
	// Capped is set when ModeWithdrawalRate stopped at the iteration cap
	// without reaching FireNumber.
	Capped bool `json:"capped,omitempty"`
}

// Empty reports whether the run produced no trajectory.
func (r Result) Empty() bool {
	return len(r.Points) == 0
}

// FinalBalance is the last recorded balance, or 0 for an empty result.
func (r Result) FinalBalance() float64 {
	if len(r.Points) == 0 {
		return 0
	}
	return r.Points[len(r.Points)-1].Balance
}

// RetirementPoints returns the trigger point and every point after it.
func (r Result) RetirementPoints() []Point {
	for i, p := range r.Points {
		if p.Phase == PhaseRetirement {
			return r.Points[i:]
		}
	}
	return nil
}
