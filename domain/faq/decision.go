package faq

import (
	"fmt"
	"sort"
)

// Outcome is the confidence tier of a match decision
type Outcome string

const (
	OutcomeDirect  Outcome = "direct"   // best score at or above the primary threshold
	OutcomeFuzzy   Outcome = "fuzzy"    // between the fuzzy and primary thresholds
	OutcomeNoMatch Outcome = "no_match" // below the fuzzy threshold, or no candidates
)

// MatchCandidate is one FAQ entry returned by the vector index
type MatchCandidate struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

// Decision is the graded result of matching a question against the corpus.
// Exactly one outcome holds: Direct and Fuzzy carry a best candidate,
// NoMatch carries only alternates. Construct via Decide or the constructors
// below so the combinations stay consistent.
type Decision struct {
	Outcome    Outcome
	Best       *MatchCandidate
	Alternates []MatchCandidate
}

// Direct builds a direct-match decision
func Direct(best MatchCandidate, alternates []MatchCandidate) Decision {
	return Decision{Outcome: OutcomeDirect, Best: &best, Alternates: alternates}
}

// Fuzzy builds a tentative "did you mean?" decision
func Fuzzy(best MatchCandidate, alternates []MatchCandidate) Decision {
	return Decision{Outcome: OutcomeFuzzy, Best: &best, Alternates: alternates}
}

// NoMatch builds a no-match decision carrying only suggestions
func NoMatch(alternates []MatchCandidate) Decision {
	return Decision{Outcome: OutcomeNoMatch, Alternates: alternates}
}

// Decide classifies ranked candidates into a tiered decision.
// Requires fuzzyThreshold <= primaryThreshold. Both comparisons are
// inclusive, so a score exactly at a threshold lands in the higher tier.
func Decide(candidates []MatchCandidate, primaryThreshold, fuzzyThreshold float64) (Decision, error) {
	if fuzzyThreshold > primaryThreshold {
		return Decision{}, fmt.Errorf("fuzzy threshold %.2f exceeds primary threshold %.2f", fuzzyThreshold, primaryThreshold)
	}

	if len(candidates) == 0 {
		return NoMatch(nil), nil
	}

	// The index contract is descending score order, but not every backend
	// honors it. Re-sort so tiering cannot be corrupted by a misordered page.
	sorted := make([]MatchCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	best := sorted[0]
	rest := sorted[1:]

	switch {
	case best.Score >= primaryThreshold:
		return Direct(best, rest), nil
	case best.Score >= fuzzyThreshold:
		return Fuzzy(best, firstN(rest, 2)), nil
	default:
		return NoMatch(firstN(sorted, 3)), nil
	}
}

func firstN(candidates []MatchCandidate, n int) []MatchCandidate {
	if len(candidates) <= n {
		return candidates
	}
	return candidates[:n]
}
