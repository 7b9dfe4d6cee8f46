package pipeline

import (
	"io"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klidoop/fire-calculation/internal/engine"
	"github.com/klidoop/fire-calculation/internal/model"
)

// Comparison holds one result per scenario, in scenario order.
type Comparison struct {
	Mode       model.Mode       `json:"mode"`
	Parameters model.Parameters `json:"parameters"`
	Results    []model.Result   `json:"results"`
}

// Summary is the headline metrics of one scenario.
type Summary struct {
	Scenario     string  `json:"scenario"`
	FireNumber   float64 `json:"fire_number"`
	TriggerStep  int     `json:"trigger_step"`
	FinalBalance float64 `json:"final_balance"`
	Feasible     bool    `json:"feasible"`
	Capped       bool    `json:"capped,omitempty"`
}

// Series is one scenario's balance per pivot step. Missing steps are NaN.
type Series struct {
	Scenario string
	Values   []float64
}

// Pivot is the step × scenario matrix behind the comparison chart.
type Pivot struct {
	Steps  []int
	Series []Series
}

// Runner executes scenario sets through the engine.
type Runner struct {
	Log logrus.FieldLogger
}

// NewRunner returns a Runner logging to log, or discarding logs when nil.
func NewRunner(log logrus.FieldLogger) *Runner {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Runner{Log: log}
}

// Run projects every overlay independently against the same parameters.
func (r *Runner) Run(p model.Parameters, overlays []model.Overlay, mode model.Mode) Comparison {
	c := Comparison{
		Mode:       mode,
		Parameters: p,
		Results:    make([]model.Result, 0, len(overlays)),
	}
	for _, o := range overlays {
		start := time.Now()
		res := engine.Project(p, o, mode)
		r.Log.WithFields(logrus.Fields{
			"scenario":    o.Label,
			"mode":        mode,
			"feasible":    res.Feasible,
			"trigger":     res.TriggerStep,
			"fire_number": math.Round(res.FireNumber),
			"points":      len(res.Points),
			"elapsed":     time.Since(start),
		}).Debug("scenario projected")
		if !res.Feasible {
			r.Log.WithField("scenario", o.Label).Info("no feasible retirement point before lifespan")
		}
		c.Results = append(c.Results, res)
	}
	return c
}

// Points concatenates every scenario's trajectory.
func (c Comparison) Points() []model.Point {
	n := 0
	for _, r := range c.Results {
		n += len(r.Points)
	}
	out := make([]model.Point, 0, n)
	for _, r := range c.Results {
		out = append(out, r.Points...)
	}
	return out
}

// Summaries returns the headline metrics per scenario.
func (c Comparison) Summaries() []Summary {
	out := make([]Summary, 0, len(c.Results))
	for _, r := range c.Results {
		out = append(out, Summary{
			Scenario:     r.Scenario,
			FireNumber:   r.FireNumber,
			TriggerStep:  r.TriggerStep,
			FinalBalance: r.FinalBalance(),
			Feasible:     r.Feasible,
			Capped:       r.Capped,
		})
	}
	return out
}

// Result returns the result for a scenario label.
func (c Comparison) Result(scenario string) (model.Result, bool) {
	for _, r := range c.Results {
		if r.Scenario == scenario {
			return r, true
		}
	}
	return model.Result{}, false
}

// Pivot lays the trajectories out on a shared, sorted step axis.
func (c Comparison) Pivot() Pivot {
	seen := make(map[int]struct{})
	for _, r := range c.Results {
		for _, p := range r.Points {
			seen[p.Step] = struct{}{}
		}
	}
	steps := make([]int, 0, len(seen))
	for s := range seen {
		steps = append(steps, s)
	}
	sort.Ints(steps)

	index := make(map[int]int, len(steps))
	for i, s := range steps {
		index[s] = i
	}

	pv := Pivot{Steps: steps, Series: make([]Series, 0, len(c.Results))}
	for _, r := range c.Results {
		vals := make([]float64, len(steps))
		for i := range vals {
			vals[i] = math.NaN()
		}
		for _, p := range r.Points {
			vals[index[p.Step]] = p.Balance
		}
		pv.Series = append(pv.Series, Series{Scenario: r.Scenario, Values: vals})
	}
	return pv
}
