// Package optimize enumerates strategy parameter combinations for grid
// search.
package optimize

import (
	"log/slog"
	"math"

	"smart100/internal/domain"
)

// Grid enumerates parameter combinations from a strategy's declarations.
type Grid struct {
	// WarnThreshold is the combination count above which a performance
	// warning is logged. The search still runs in full.
	WarnThreshold int
	log           *slog.Logger
}

// NewGrid creates a Grid with the given warning threshold.
func NewGrid(warnThreshold int, log *slog.Logger) *Grid {
	return &Grid{
		WarnThreshold: warnThreshold,
		log:           log.With("component", "optimize"),
	}
}

// Combinations returns the Cartesian product of all optimizable parameter
// ranges, in declaration order. Parameters without a valid numeric range
// (including NaN bounds or step <= 0) are held at their default rather than
// aborting the search. When nothing is optimizable the single all-defaults
// combination is returned.
func (g *Grid) Combinations(defs []domain.ParamDef) []domain.Params {
	base := domain.DefaultParams(defs)

	type axis struct {
		name   string
		values []float64
	}
	var axes []axis
	total := 1
	for _, d := range defs {
		if !d.Optimizable() {
			continue
		}
		vals := enumerate(*d.Min, *d.Max, *d.Step)
		axes = append(axes, axis{name: d.Name, values: vals})
		total *= len(vals)
	}

	if len(axes) == 0 {
		return []domain.Params{base}
	}
	if g.WarnThreshold > 0 && total > g.WarnThreshold {
		g.log.Warn("large parameter grid", "combinations", total, "threshold", g.WarnThreshold)
	}

	combos := make([]domain.Params, 0, total)
	indices := make([]int, len(axes))
	for {
		combo := base.Clone()
		for ai, a := range axes {
			combo[a.name] = a.values[indices[ai]]
		}
		combos = append(combos, combo)

		// Advance the odometer, last axis fastest.
		ai := len(axes) - 1
		for ai >= 0 {
			indices[ai]++
			if indices[ai] < len(axes[ai].values) {
				break
			}
			indices[ai] = 0
			ai--
		}
		if ai < 0 {
			return combos
		}
	}
}

// enumerate yields min, min+step, ... and always terminates on exactly max,
// even when (max-min) is not an integer multiple of step.
func enumerate(min, max, step float64) []float64 {
	var vals []float64
	for v := min; v < max; v += step {
		// Guard against a float-drift value landing indistinguishably close
		// to max; max itself is appended below.
		if math.Abs(v-max) < step*1e-9 {
			break
		}
		vals = append(vals, v)
	}
	vals = append(vals, max)
	return vals
}
