package models

// ScoringWeights maps factor names to their weight in the composite score.
// Weights are looked up by name at scoring time; a factor absent from the map
// contributes zero. Weights are not required to sum to one — each factor is an
// independently weighted 0-100 contribution, not part of a normalized average.
type ScoringWeights map[string]float64

// DefaultWeights returns the default factor weighting.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		FactorRecurrence:  0.25,
		FactorSkip:        0.15,
		FactorPair:        0.15,
		FactorTriple:      0.10,
		FactorSum:         0.15,
		FactorHotCold:     0.10,
		FactorLocationFit: 0.10,
	}
}

// Merge returns a copy of w with the entries of updates applied on top.
// Neither input map is modified.
func (w ScoringWeights) Merge(updates ScoringWeights) ScoringWeights {
	merged := make(ScoringWeights, len(w)+len(updates))
	for name, weight := range w {
		merged[name] = weight
	}
	for name, weight := range updates {
		merged[name] = weight
	}
	return merged
}

// Clone returns an independent copy of the weight map.
func (w ScoringWeights) Clone() ScoringWeights {
	return ScoringWeights{}.Merge(w)
}
