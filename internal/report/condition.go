package report

import "inspections/pkg/types"

var conditionScores = map[types.Condition]float64{
	types.ConditionGood: 3,
	types.ConditionFair: 2,
	types.ConditionPoor: 1,
}

// OverallCondition averages the scores of the set checklist items and
// classifies the mean: >= 2.5 Good, >= 1.5 Fair, otherwise Poor. It returns
// nil when no item is set.
func OverallCondition(c types.Checklist) *types.Condition {
	var total float64
	var count int
	for _, item := range c.Items() {
		if item.Value == nil {
			continue
		}
		total += conditionScores[*item.Value]
		count++
	}

	if count == 0 {
		return nil
	}

	avg := total / float64(count)
	switch {
	case avg >= 2.5:
		return types.ConditionGood.Ptr()
	case avg >= 1.5:
		return types.ConditionFair.Ptr()
	default:
		return types.ConditionPoor.Ptr()
	}
}
