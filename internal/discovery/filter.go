// internal/discovery/filter.go
// Hard eligibility rules for discovery. The backing query already excludes
// the requester and anyone they have interacted with; everything else is
// re-checked here because the store may over-return.

package discovery

import (
	"time"

	"github.com/sparkmatch/sparkmatch-backend/internal/geo"
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

// FilterCandidates returns the subset of candidates eligible for the
// requester under the given settings. No ordering is guaranteed; ranking
// is the caller's concern.
func FilterCandidates(candidates []*profile.Profile, requester *profile.Profile, settings Settings, now time.Time) []*profile.Profile {
	eligible := make([]*profile.Profile, 0, len(candidates))

	for _, c := range candidates {
		if c.UserID == requester.UserID {
			continue
		}
		if !c.IsVisible {
			continue
		}

		age := c.Age(now)
		if age < settings.MinAge || age > settings.MaxAge {
			continue
		}

		// Both parties' stated preference must admit the other's gender.
		if !showMeAdmits(settings.ShowMe, c.Gender) || !showMeAdmits(c.ShowMe, requester.Gender) {
			continue
		}

		// Distance is only a constraint when both sides have a known
		// location and a positive cap is set; missing data cannot
		// exclude a candidate.
		if settings.MaxDistanceKm > 0 && requester.HasLocation() && c.HasLocation() {
			dist := geo.Haversine(*requester.Latitude, *requester.Longitude, *c.Latitude, *c.Longitude)
			if dist > settings.MaxDistanceKm {
				continue
			}
		}

		eligible = append(eligible, c)
	}

	return eligible
}

// showMeAdmits reports whether a show_me preference admits a gender
func showMeAdmits(showMe, gender string) bool {
	return showMe == profile.ShowMeAny || showMe == gender
}
