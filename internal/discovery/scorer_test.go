package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

func strPtr(s string) *string { return &s }

func TestScoreKnownScenario(t *testing.T) {
	alice := &profile.Profile{
		Interests: []string{"music", "sports", "travel"},
		Goal:      strPtr("dating"),
		Education: strPtr(profile.EducationBachelor),
		Languages: []string{"en", "ru"},
	}
	jane := &profile.Profile{
		Interests: []string{"music", "travel", "food"},
		Goal:      strPtr("dating"),
		Education: strPtr(profile.EducationBachelor),
		Languages: []string{"en", "ru"},
	}

	// 2 interests (16) + goal (20) + education (20) + 2 languages (20)
	assert.Equal(t, 76.0, Score(alice, jane))
}

func TestScoreSymmetry(t *testing.T) {
	pairs := []struct{ a, b *profile.Profile }{
		{
			&profile.Profile{Interests: []string{"music"}, Goal: strPtr("dating"), Education: strPtr(profile.EducationMaster)},
			&profile.Profile{Interests: []string{"music", "food"}, Goal: strPtr("casual"), Education: strPtr(profile.EducationPhD)},
		},
		{
			&profile.Profile{Languages: []string{"en", "fr", "de"}},
			&profile.Profile{Languages: []string{"de", "en"}},
		},
		{
			&profile.Profile{},
			&profile.Profile{Interests: []string{"a", "b"}, Education: strPtr(profile.EducationOther)},
		},
	}

	for _, p := range pairs {
		assert.Equal(t, Score(p.a, p.b), Score(p.b, p.a))
	}
}

func TestScoreBounds(t *testing.T) {
	// Maxed-out profiles must clamp to 100.
	many := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	a := &profile.Profile{
		Interests: many,
		Goal:      strPtr("dating"),
		Education: strPtr(profile.EducationBachelor),
		Languages: many,
	}
	b := &profile.Profile{
		Interests: many,
		Goal:      strPtr("dating"),
		Education: strPtr(profile.EducationBachelor),
		Languages: many,
	}
	assert.Equal(t, 100.0, Score(a, b))

	// Nothing in common scores zero.
	assert.Equal(t, 0.0, Score(&profile.Profile{}, &profile.Profile{}))
}

func TestScoreInterestCap(t *testing.T) {
	many := []string{"a", "b", "c", "d", "e", "f"}
	a := &profile.Profile{Interests: many}
	b := &profile.Profile{Interests: many}

	// 6 shared interests would be 48 points without the cap.
	assert.Equal(t, 40.0, Score(a, b))
}

func TestScoreLanguageCap(t *testing.T) {
	many := []string{"en", "ru", "fr", "de"}
	a := &profile.Profile{Languages: many}
	b := &profile.Profile{Languages: many}

	assert.Equal(t, 20.0, Score(a, b))
}

func TestScoreEducationProximity(t *testing.T) {
	tests := []struct {
		name string
		a, b *string
		want float64
	}{
		{"equal", strPtr(profile.EducationMaster), strPtr(profile.EducationMaster), 20},
		{"adjacent", strPtr(profile.EducationBachelor), strPtr(profile.EducationMaster), 10},
		{"far apart", strPtr(profile.EducationHighSchool), strPtr(profile.EducationPhD), 0},
		{"one missing", strPtr(profile.EducationPhD), nil, 0},
		{"both missing", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &profile.Profile{Education: tt.a}
			b := &profile.Profile{Education: tt.b}
			assert.Equal(t, tt.want, Score(a, b))
		})
	}
}

func TestScoreIgnoresDuplicates(t *testing.T) {
	a := &profile.Profile{Interests: []string{"music", "music", "music"}}
	b := &profile.Profile{Interests: []string{"music", "music"}}

	assert.Equal(t, 8.0, Score(a, b))
}

func TestScoreGoalRequiresBothPresent(t *testing.T) {
	a := &profile.Profile{Goal: strPtr("dating")}
	b := &profile.Profile{}

	assert.Equal(t, 0.0, Score(a, b))
}
