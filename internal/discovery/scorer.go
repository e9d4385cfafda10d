// internal/discovery/scorer.go
// Heuristic compatibility score in [0, 100]. Every term is a set
// intersection or an equality check, so the score is symmetric in its
// arguments.

package discovery

import (
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

// Score term weights and caps
const (
	interestPoints = 8
	interestCap    = 40
	goalPoints     = 20
	educationEqual = 20
	educationNear  = 10
	languagePoints = 10
	languageCap    = 20
	maxScore       = 100.0
)

// educationRank orders education levels for the proximity bonus
var educationRank = map[string]int{
	profile.EducationOther:      0,
	profile.EducationHighSchool: 1,
	profile.EducationBachelor:   2,
	profile.EducationMaster:     3,
	profile.EducationPhD:        4,
}

// Score computes the compatibility of two profiles:
// shared interests (8 each, capped at 40), same goal (+20), education
// proximity (+20 equal, +10 adjacent), shared languages (10 each, capped
// at 20). The sum is clamped to 100.
func Score(a, b *profile.Profile) float64 {
	score := 0.0

	if pts := countShared(a.Interests, b.Interests) * interestPoints; pts > interestCap {
		score += interestCap
	} else {
		score += float64(pts)
	}

	if a.Goal != nil && b.Goal != nil && *a.Goal == *b.Goal {
		score += goalPoints
	}

	score += educationScore(a.Education, b.Education)

	if pts := countShared(a.Languages, b.Languages) * languagePoints; pts > languageCap {
		score += languageCap
	} else {
		score += float64(pts)
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

func educationScore(a, b *string) float64 {
	if a == nil || b == nil {
		return 0
	}
	if *a == *b {
		return educationEqual
	}

	ra, okA := educationRank[*a]
	rb, okB := educationRank[*b]
	if !okA || !okB {
		return 0
	}

	diff := ra - rb
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return educationNear
	}
	return 0
}

// countShared counts values present in both lists, treating them as sets
func countShared(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}

	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			count++
		}
	}

	return count
}
