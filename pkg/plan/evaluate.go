package plan

// Evaluate aggregates value, cost, hours and per-category contributions over
// tasks. Every category in cats is present in the result, defaulting to zero;
// contributions to categories outside cats are summed as well. Evaluate never
// fails and returns all zeros for an empty subset.
func Evaluate(cats Categories, tasks []Task) Totals {
	totals := Totals{Categories: make(Amounts, len(cats))}
	for _, c := range cats {
		totals.Categories[c] = 0
	}
	for _, t := range tasks {
		totals.Value += t.Value
		totals.Cost += t.Cost
		totals.Hours += t.Hours
		for c, v := range t.Categories {
			totals.Categories[c] += v
		}
	}
	return totals
}

// FitsCaps reports whether the totals stay within the cost and hours ceilings.
// Under non-negative costs and hours this is monotonic in subset size, which
// makes it safe for pruning partial selections.
func FitsCaps(t Totals, c Constraints) bool {
	return t.Cost <= c.MaxCost && t.Hours <= c.MaxHours
}

// MeetsCategoryMinima reports whether every category minimum is reached.
// Missing totals count as zero.
func MeetsCategoryMinima(t Totals, c Constraints) bool {
	for cat, want := range c.MinCategoryTotals {
		if t.Categories.Get(cat) < want {
			return false
		}
	}
	return true
}

// IsFullyFeasible reports whether the totals satisfy both the caps and the
// category minima.
func IsFullyFeasible(t Totals, c Constraints) bool {
	return FitsCaps(t, c) && MeetsCategoryMinima(t, c)
}

// Deficits returns, for every category minimum not yet met, the amount still
// missing. Satisfied categories are omitted.
func Deficits(t Totals, c Constraints) Amounts {
	out := make(Amounts)
	for cat, want := range c.MinCategoryTotals {
		if d := want - t.Categories.Get(cat); d > 0 {
			out[cat] = d
		}
	}
	return out
}
