package deliverables

// =============================================================================
// COMMITMENT RESOLVER - Which target applies to a (client, week)?
// =============================================================================

// EffectiveBaseline resolves the baseline weekly target in effect for the
// week starting at weekMonday: the version with the latest EffectiveFrom
// that is <= weekMonday. Returns 0 when the client has no baseline yet.
//
// The resolution is a pure function of the full version history, not of a
// "currently active" flag: past weeks need the target that was in effect
// at that time, which may differ from today's if the commitment changed
// since.
func EffectiveBaseline(baselines []BaselineVersion, clientID ClientID, weekMonday BusinessDate) int {
	var (
		best  BusinessDate
		qty   int
		found bool
	)
	for _, b := range baselines {
		if b.ClientID != clientID || b.EffectiveFrom.After(weekMonday) {
			continue
		}
		if !found || b.EffectiveFrom.After(best) {
			best = b.EffectiveFrom
			qty = b.WeeklyQuantity
			found = true
		}
	}
	return qty
}

// EffectiveTarget resolves the target for a week: an override for that
// exact week wins outright (it replaces the baseline, it does not add to
// it), otherwise the effective baseline applies.
func EffectiveTarget(baselines []BaselineVersion, overrides []Override, clientID ClientID, weekMonday BusinessDate) int {
	for _, o := range overrides {
		if o.ClientID == clientID && o.WeekStart.Equal(weekMonday) {
			return o.WeeklyQuantity
		}
	}
	return EffectiveBaseline(baselines, clientID, weekMonday)
}
