package health

// GoalUpdate is one derived change to a goal after a metric insert.
// Completed marks a fresh active-to-completed transition only; already
// completed goals keep receiving value updates with Completed false.
type GoalUpdate struct {
	GoalID       int
	GoalType     string
	CurrentValue float64
	Completed    bool
}

// ApplyMetric derives goal progress from a freshly recorded metric.
// Active and completed goals both get their current value refreshed,
// whether or not the target is met, but status only ever moves from
// active to completed: a completed goal never regresses when a later
// measurement moves the wrong way. If several goals share a type they
// all receive the same update. Paused and abandoned goals are left
// alone.
func ApplyMetric(m Metric, goals []Goal) []GoalUpdate {
	var updates []GoalUpdate
	for _, g := range goals {
		if g.Status != StatusActive && g.Status != StatusCompleted {
			continue
		}

		var value *float64
		var met bool
		switch g.GoalType {
		case GoalWeightLoss:
			if m.WeightKg != nil {
				value, met = m.WeightKg, *m.WeightKg <= g.TargetValue
			}
		case GoalWeightGain:
			if m.WeightKg != nil {
				value, met = m.WeightKg, *m.WeightKg >= g.TargetValue
			}
		case GoalBodyFatReduction:
			if m.BodyFatPercentage != nil {
				value, met = m.BodyFatPercentage, *m.BodyFatPercentage <= g.TargetValue
			}
		}
		if value == nil {
			continue
		}

		updates = append(updates, GoalUpdate{
			GoalID:       g.ID,
			GoalType:     g.GoalType,
			CurrentValue: *value,
			Completed:    g.Status == StatusActive && met,
		})
	}
	return updates
}
