// internal/discovery/dto.go

package discovery

import (
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

// Settings are the hard eligibility rules applied to a candidate pool.
// Defaults come from the requester's stored preferences; callers may
// override per request.
type Settings struct {
	MinAge        int     `json:"min_age"`
	MaxAge        int     `json:"max_age"`
	ShowMe        string  `json:"show_me"`
	MaxDistanceKm float64 `json:"max_distance_km"`
}

// SettingsFromProfile builds search settings from stored preferences
func SettingsFromProfile(p *profile.Profile) Settings {
	return Settings{
		MinAge:        p.PrefMinAge,
		MaxAge:        p.PrefMaxAge,
		ShowMe:        p.ShowMe,
		MaxDistanceKm: p.PrefMaxDistanceKm,
	}
}

// SearchQuery carries per-request overrides and paging
type SearchQuery struct {
	MinAge        *int     `json:"min_age" validate:"omitempty,min=18,max=100"`
	MaxAge        *int     `json:"max_age" validate:"omitempty,min=18,max=100"`
	MaxDistanceKm *float64 `json:"max_distance_km" validate:"omitempty,min=1,max=20000"`
	Limit         int      `json:"limit" validate:"min=1,max=50"`
	Offset        int      `json:"offset" validate:"min=0"`
}

// Candidate is one ranked discovery result
type Candidate struct {
	UserID      int64    `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	City        *string  `json:"city,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Goal        *string  `json:"goal,omitempty"`
	Interests   []string `json:"interests"`
	Languages   []string `json:"languages"`
	IsVerified  bool     `json:"is_verified"`
	PhotoURL    *string  `json:"photo_url,omitempty"`
	Score       float64  `json:"score"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}
