// Package matchers scores normalized listings against stored user
// preferences. Scoring is pure and has no cross-pair state, so callers may
// evaluate (listing, user) pairs concurrently and in any order.
package matchers

import (
	"database/sql"
	"math"
	"strings"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/enums"
)

// MatchThreshold is the minimum score at which a match is persisted.
const MatchThreshold = 60

// Listings up to this fraction over the rent budget still earn partial
// credit, since extracted rent is sometimes approximate (cold vs warm).
const rentOverBudgetTolerance = 0.10

// ScoreWeights is the per-criterion weight table. Criteria whose preference
// is unset do not count toward the total, so their weight redistributes to
// the remaining criteria instead of penalizing the user.
type ScoreWeights struct {
	Rent         int
	Rooms        int
	Size         int
	District     int
	PropertyType int
	Gender       int
	Age          int
	Smoking      int
	Pets         int
}

var DefaultWeights = ScoreWeights{
	Rent:         30,
	Rooms:        20,
	Size:         15,
	District:     20,
	PropertyType: 5,
	Gender:       3,
	Age:          3,
	Smoking:      2,
	Pets:         2,
}

type criterion struct {
	name    string
	weight  func(w ScoreWeights) int
	applies func(l data.Listing, p data.Preferences) bool
	// score returns the earned fraction of the criterion's weight, 0..1.
	score func(l data.Listing, p data.Preferences) float64
}

// Evaluated in a fixed order so precedence is pinned by tests.
var criteria = []criterion{
	{
		name:    "rent",
		weight:  func(w ScoreWeights) int { return w.Rent },
		applies: func(l data.Listing, p data.Preferences) bool { return p.MinRent.Valid || p.MaxRent.Valid },
		score:   scoreRent,
	},
	{
		name:    "rooms",
		weight:  func(w ScoreWeights) int { return w.Rooms },
		applies: func(l data.Listing, p data.Preferences) bool { return p.MinRooms.Valid || p.MaxRooms.Valid },
		score: func(l data.Listing, p data.Preferences) float64 {
			if !l.Rooms.Valid {
				return 0
			}
			return scoreInRange(l.Rooms.Float64, p.MinRooms, p.MaxRooms)
		},
	},
	{
		name:    "size",
		weight:  func(w ScoreWeights) int { return w.Size },
		applies: func(l data.Listing, p data.Preferences) bool { return p.MinSize.Valid || p.MaxSize.Valid },
		score: func(l data.Listing, p data.Preferences) float64 {
			if !l.SizeSqm.Valid {
				return 0
			}
			return scoreInRange(l.SizeSqm.Float64, p.MinSize, p.MaxSize)
		},
	},
	{
		name:    "district",
		weight:  func(w ScoreWeights) int { return w.District },
		applies: func(l data.Listing, p data.Preferences) bool { return len(p.Districts) > 0 },
		score: func(l data.Listing, p data.Preferences) float64 {
			if !l.District.Valid {
				return 0
			}
			for _, district := range p.Districts {
				if strings.EqualFold(district, l.District.String) {
					return 1
				}
			}
			return 0
		},
	},
	{
		name:    "property_type",
		weight:  func(w ScoreWeights) int { return w.PropertyType },
		applies: func(l data.Listing, p data.Preferences) bool { return len(p.PropertyTypes) > 0 },
		score: func(l data.Listing, p data.Preferences) float64 {
			for _, propertyType := range p.PropertyTypes {
				if enums.PropertyType(propertyType) == l.PropertyType {
					return 1
				}
			}
			return 0
		},
	},
	{
		name:   "gender",
		weight: func(w ScoreWeights) int { return w.Gender },
		applies: func(l data.Listing, p data.Preferences) bool {
			return l.PreferredGender != enums.GenderUnknown && p.Gender != enums.GenderUnknown
		},
		score: func(l data.Listing, p data.Preferences) float64 {
			if l.PreferredGender == enums.GenderAny || l.PreferredGender == p.Gender {
				return 1
			}
			return 0
		},
	},
	{
		name:   "age",
		weight: func(w ScoreWeights) int { return w.Age },
		applies: func(l data.Listing, p data.Preferences) bool {
			return (l.PreferredAgeMin.Valid || l.PreferredAgeMax.Valid) && p.Age.Valid
		},
		score: func(l data.Listing, p data.Preferences) float64 {
			age := p.Age.Int64
			if l.PreferredAgeMin.Valid && age < l.PreferredAgeMin.Int64 {
				return 0
			}
			if l.PreferredAgeMax.Valid && age > l.PreferredAgeMax.Int64 {
				return 0
			}
			return 1
		},
	},
	{
		name:   "smoking",
		weight: func(w ScoreWeights) int { return w.Smoking },
		applies: func(l data.Listing, p data.Preferences) bool {
			return l.Smoking != enums.SmokingUnknown && p.Smoker.Valid
		},
		score: func(l data.Listing, p data.Preferences) float64 {
			if !p.Smoker.Bool {
				return 1
			}
			switch l.Smoking {
			case enums.SmokingAllowed:
				return 1
			case enums.SmokingBalconyOnly:
				return 0.5
			}
			return 0
		},
	},
	{
		name:   "pets",
		weight: func(w ScoreWeights) int { return w.Pets },
		applies: func(l data.Listing, p data.Preferences) bool {
			return l.PetsAllowed.Valid && p.HasPets.Valid
		},
		score: func(l data.Listing, p data.Preferences) float64 {
			if !p.HasPets.Bool {
				return 1
			}
			if l.PetsAllowed.Bool {
				return 1
			}
			return 0
		},
	},
}

// CalculateMatchScore computes the 0-100 match score for a listing against a
// user's preferences using the default weight table.
func CalculateMatchScore(listing data.Listing, prefs data.Preferences) int {
	return CalculateMatchScoreWeighted(listing, prefs, DefaultWeights)
}

// CalculateMatchScoreWeighted scores with an explicit weight table. The
// score is the earned share of the total weight of applicable criteria,
// scaled to 0-100. With no applicable criterion at all the listing is a
// trivial full match.
func CalculateMatchScoreWeighted(listing data.Listing, prefs data.Preferences, weights ScoreWeights) int {
	totalWeight := 0
	earned := 0.0

	for _, c := range criteria {
		if !c.applies(listing, prefs) {
			continue
		}
		weight := c.weight(weights)
		totalWeight += weight
		earned += float64(weight) * c.score(listing, prefs)
	}

	if totalWeight == 0 {
		return 100
	}

	score := int(math.Round(100 * earned / float64(totalWeight)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// scoreRent gives full credit inside the budget and linear partial credit up
// to 10% past either bound. When the cold rent is unknown it scores the
// budget against the warm rent instead; warm rent is an upper bound on cold
// rent, so this never overstates affordability. A listing with neither
// (price on request) earns nothing.
func scoreRent(l data.Listing, p data.Preferences) float64 {
	rent := float64(l.Price)
	if l.Price <= 0 {
		if !l.WarmRent.Valid || l.WarmRent.Int64 <= 0 {
			return 0
		}
		rent = float64(l.WarmRent.Int64)
	}

	if p.MaxRent.Valid && rent > float64(p.MaxRent.Int64) {
		limit := float64(p.MaxRent.Int64) * (1 + rentOverBudgetTolerance)
		return partialCredit(limit-rent, float64(p.MaxRent.Int64)*rentOverBudgetTolerance)
	}
	if p.MinRent.Valid && rent < float64(p.MinRent.Int64) {
		limit := float64(p.MinRent.Int64) * (1 - rentOverBudgetTolerance)
		return partialCredit(rent-limit, float64(p.MinRent.Int64)*rentOverBudgetTolerance)
	}
	return 1
}

// scoreInRange is the hard in/out rule used for rooms and size: full weight
// inside the range, zero outside. The criterion stays scored rather than
// filtering, so a near-miss listing surfaces with a low score instead of
// disappearing.
func scoreInRange(value float64, lower, upper sql.NullFloat64) float64 {
	if lower.Valid && value < lower.Float64 {
		return 0
	}
	if upper.Valid && value > upper.Float64 {
		return 0
	}
	return 1
}

func partialCredit(remaining, span float64) float64 {
	if span <= 0 || remaining <= 0 {
		return 0
	}
	if remaining >= span {
		return 1
	}
	return remaining / span
}
