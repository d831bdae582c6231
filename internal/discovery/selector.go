package discovery

import "math/rand/v2"

// selectionWindow bounds the random choice to the top-ranked results so the
// pick stays relevant while still giving variety.
const selectionWindow = 3

// Select filters candidates against the excluded URL (the just-played track)
// and picks one winner uniformly at random among the first
// min(selectionWindow, N) survivors.
//
// Returns false when nothing remains after filtering. A nil rng uses the
// global source; tests inject a seeded [rand.Rand] for determinism.
func Select(cands []Candidate, exclude string, rng *rand.Rand) (Candidate, bool) {
	filtered := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.URL != exclude {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) == 0 {
		return Candidate{}, false
	}

	window := len(filtered)
	if window > selectionWindow {
		window = selectionWindow
	}

	if rng == nil {
		return filtered[rand.IntN(window)], true
	}
	return filtered[rng.IntN(window)], true
}
