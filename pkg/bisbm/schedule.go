package bisbm

import (
	"fmt"
	"math"
)

// Schedule maps the 0-indexed sweep counter to a temperature.
type Schedule func(sweep int) float64

// Schedule names accepted by NewSchedule.
const (
	ScheduleExponential = "exponential"
	ScheduleLinear      = "linear"
	ScheduleLogarithmic = "logarithmic"
	ScheduleConstant    = "constant"
	ScheduleAbruptCool  = "abrupt_cool"
)

// Floor for the linear schedule so the temperature never reaches zero
// before the configured duration runs out.
const minLinearTemperature = 1e-10

// NewSchedule builds a cooling schedule. Empty kwargs select the
// per-schedule defaults; explicit kwargs are validated. duration and
// stepsAwait feed the linear and abrupt_cool defaults.
func NewSchedule(name string, kwargs []float64, duration, stepsAwait int) (Schedule, error) {
	switch name {
	case ScheduleExponential:
		if len(kwargs) == 0 {
			kwargs = []float64{1, 0.99}
		}
		if len(kwargs) < 2 {
			return nil, fmt.Errorf("exponential schedule needs kwargs T_0, alpha")
		}
		t0, alpha := kwargs[0], kwargs[1]
		if t0 <= 0 {
			return nil, fmt.Errorf("exponential schedule: T_0 must be greater than 0, got %g", t0)
		}
		if alpha <= 0 || alpha >= 1 {
			return nil, fmt.Errorf("exponential schedule: alpha must be in ]0,1[, got %g", alpha)
		}
		return func(sweep int) float64 {
			return t0 * math.Pow(alpha, float64(sweep))
		}, nil

	case ScheduleLinear:
		if len(kwargs) == 0 {
			kwargs = []float64{float64(duration) + 1, 1}
		}
		if len(kwargs) < 2 {
			return nil, fmt.Errorf("linear schedule needs kwargs T_0, eta")
		}
		t0, eta := kwargs[0], kwargs[1]
		if t0 <= 0 {
			return nil, fmt.Errorf("linear schedule: T_0 must be greater than 0, got %g", t0)
		}
		if eta <= 0 || eta > t0 {
			return nil, fmt.Errorf("linear schedule: eta must be in ]0, T_0], got eta=%g T_0=%g", eta, t0)
		}
		if eta*float64(duration) > t0 {
			return nil, fmt.Errorf("linear schedule: eta*duration=%g exceeds T_0=%g", eta*float64(duration), t0)
		}
		return func(sweep int) float64 {
			return math.Max(t0-eta*float64(sweep), minLinearTemperature)
		}, nil

	case ScheduleLogarithmic:
		// The reference driver range-checks only explicit kwargs; the
		// defaulted pair bypasses validation.
		if len(kwargs) == 0 {
			kwargs = []float64{1, 1}
		} else {
			if len(kwargs) < 2 {
				return nil, fmt.Errorf("logarithmic schedule needs kwargs c, d")
			}
			if kwargs[0] <= 0 {
				return nil, fmt.Errorf("logarithmic schedule: c must be greater than 0, got %g", kwargs[0])
			}
			// d in (0,1] makes log(t+d) non-positive for small t, which
			// would flip the acceptance exponent.
			if kwargs[1] <= 1 {
				return nil, fmt.Errorf("logarithmic schedule: d must be greater than 1, got %g", kwargs[1])
			}
		}
		c, d := kwargs[0], kwargs[1]
		return func(sweep int) float64 {
			return c / math.Log(float64(sweep)+d)
		}, nil

	case ScheduleConstant:
		if len(kwargs) == 0 {
			kwargs = []float64{1}
		}
		t := kwargs[0]
		if t <= 0 {
			return nil, fmt.Errorf("constant schedule: temperature must be greater than 0, got %g", t)
		}
		return func(int) float64 { return t }, nil

	case ScheduleAbruptCool:
		if len(kwargs) == 0 {
			kwargs = []float64{float64(stepsAwait)}
		}
		tau := kwargs[0]
		if tau <= 0 {
			return nil, fmt.Errorf("abrupt_cool schedule: tau must be larger than 0, got %g", tau)
		}
		// Two phases: free exploration below tau sweeps, then no move
		// that raises the entropy is accepted.
		return func(sweep int) float64 {
			if float64(sweep) < tau {
				return math.Inf(1)
			}
			return 0
		}, nil

	default:
		return nil, fmt.Errorf("invalid cooling schedule %q; options are exponential, linear, logarithmic, constant, abrupt_cool", name)
	}
}
