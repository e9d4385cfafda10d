// internal/profile/models.go

package profile

import (
	"time"

	"github.com/lib/pq"
)

// Gender values
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ShowMe values; "any" admits every gender
const (
	ShowMeMale   = "male"
	ShowMeFemale = "female"
	ShowMeAny    = "any"
)

// Education levels, ordered from least to most formal
const (
	EducationOther      = "other"
	EducationHighSchool = "high_school"
	EducationBachelor   = "bachelor"
	EducationMaster     = "master"
	EducationPhD        = "phd"
)

// Profile represents a user's dating profile
type Profile struct {
	UserID      int64          `json:"user_id" db:"user_id"`
	DisplayName string         `json:"display_name" db:"display_name"`
	BirthDate   time.Time      `json:"birth_date" db:"birth_date"`
	Gender      string         `json:"gender" db:"gender"`
	ShowMe      string         `json:"show_me" db:"show_me"`
	City        *string        `json:"city,omitempty" db:"city"`
	Bio         *string        `json:"bio,omitempty" db:"bio"`
	Goal        *string        `json:"goal,omitempty" db:"goal"`
	Education   *string        `json:"education,omitempty" db:"education"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	Languages   pq.StringArray `json:"languages" db:"languages"`

	// Location is optional; geohash is derived from it on every update and
	// is the only location detail exposed to other users.
	Latitude  *float64 `json:"-" db:"latitude"`
	Longitude *float64 `json:"-" db:"longitude"`
	Geohash   *string  `json:"geohash,omitempty" db:"geohash"`

	// Discovery preferences
	PrefMinAge        int     `json:"pref_min_age" db:"pref_min_age"`
	PrefMaxAge        int     `json:"pref_max_age" db:"pref_max_age"`
	PrefMaxDistanceKm float64 `json:"pref_max_distance_km" db:"pref_max_distance_km"`

	IsVisible  bool `json:"is_visible" db:"is_visible"`
	IsVerified bool `json:"is_verified" db:"is_verified"`

	Photos []Photo `json:"photos,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Photo is one entry in a profile's ordered, capacity-bounded photo list
type Photo struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	URL       string    `json:"url" db:"url"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Age returns the profile's age in full years as of now, adjusted for
// whether the birthday has occurred yet this year.
func (p *Profile) Age(now time.Time) int {
	age := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}

// HasLocation reports whether the profile has a known location
func (p *Profile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PrimaryPhotoURL returns the first photo URL, if any
func (p *Profile) PrimaryPhotoURL() *string {
	if len(p.Photos) == 0 {
		return nil
	}
	return &p.Photos[0].URL
}

// CreateProfileRequest is the onboarding payload
type CreateProfileRequest struct {
	DisplayName string   `json:"display_name" validate:"required,min=2,max=100"`
	BirthDate   string   `json:"birth_date" validate:"required"`
	Gender      string   `json:"gender" validate:"required,oneof=male female other"`
	ShowMe      string   `json:"show_me" validate:"required,oneof=male female any"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	Bio         *string  `json:"bio" validate:"omitempty,max=500"`
	Goal        *string  `json:"goal" validate:"omitempty,oneof=dating relationship friendship casual"`
	Education   *string  `json:"education" validate:"omitempty,oneof=other high_school bachelor master phd"`
	Interests   []string `json:"interests" validate:"omitempty,max=10,dive,min=1,max=50"`
	Languages   []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=50"`
}

// UpdateProfileRequest carries owner-only partial updates
type UpdateProfileRequest struct {
	DisplayName       *string  `json:"display_name" validate:"omitempty,min=2,max=100"`
	ShowMe            *string  `json:"show_me" validate:"omitempty,oneof=male female any"`
	City              *string  `json:"city" validate:"omitempty,max=100"`
	Bio               *string  `json:"bio" validate:"omitempty,max=500"`
	Goal              *string  `json:"goal" validate:"omitempty,oneof=dating relationship friendship casual"`
	Education         *string  `json:"education" validate:"omitempty,oneof=other high_school bachelor master phd"`
	Interests         []string `json:"interests" validate:"omitempty,max=10,dive,min=1,max=50"`
	Languages         []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=50"`
	PrefMinAge        *int     `json:"pref_min_age" validate:"omitempty,min=18,max=100"`
	PrefMaxAge        *int     `json:"pref_max_age" validate:"omitempty,min=18,max=100"`
	PrefMaxDistanceKm *float64 `json:"pref_max_distance_km" validate:"omitempty,min=1,max=20000"`
	IsVisible         *bool    `json:"is_visible"`
}

// UpdateLocationRequest sets the profile's coordinates. Pointers so that
// 0.0 (a valid coordinate) survives the required check.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}
