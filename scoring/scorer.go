// Package scoring computes the personalized 0-10 match score between
// a user and a listing: a weighted blend of criteria match, lifestyle
// match, value for money and bonus factors, plus the derived badge.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/Arthurlmr/weleev-sub000/models"
)

// neutralScore is the midpoint used whenever a sub-score has no data
// to work with.
const neutralScore = 5.0

// energyBonus maps the DPE energy class to its bonus contribution.
var energyBonus = map[string]float64{
	"A": 10,
	"B": 8,
	"C": 6,
	"D": 4,
	"E": 3,
	"F": 1,
	"G": 0,
}

// criteriaScore averages three equally-weighted factors: price against
// budget, rooms against minimum, property type match. Without stored
// criteria the sub-score stays neutral.
func criteriaScore(l *models.Listing, c *models.SearchCriteria) float64 {
	if c == nil {
		return neutralScore
	}

	var price float64
	if c.MaxBudget > 0 && l.Price > float64(c.MaxBudget) {
		price = 0
	} else if c.MaxBudget <= 0 {
		price = neutralScore
	} else {
		switch ratio := l.Price / float64(c.MaxBudget); {
		case ratio < 0.7:
			price = 10
		case ratio < 0.9:
			price = 8
		default:
			price = 5
		}
	}

	var rooms float64
	switch {
	case l.Rooms < c.MinRooms:
		rooms = 0
	case l.Rooms == c.MinRooms:
		rooms = 10
	default:
		rooms = 8
	}

	propertyType := 2.0
	if c.PropertyType == models.PropertyTypeAny || string(c.PropertyType) == l.PropertyType {
		propertyType = 10
	}

	return (price + rooms + propertyType) / 3
}

// lifestyleScore is the fraction of the profile's proximity priorities
// the listing satisfies, scaled to 0-10. Priorities use fixed keyword
// rules against the lower-cased description; "indifferent" entries are
// ignored. No usable priorities keeps the sub-score neutral.
func lifestyleScore(l *models.Listing, p *models.ConversationalProfile) float64 {
	if p == nil {
		return neutralScore
	}

	prefs := make([]string, 0, len(p.ProximityPriorities))
	for _, pref := range p.ProximityPriorities {
		if pref != models.NoPreference {
			prefs = append(prefs, pref)
		}
	}
	if len(prefs) == 0 {
		return neutralScore
	}

	desc := strings.ToLower(l.Description)
	matched := 0
	for _, pref := range prefs {
		if lifestyleMatch(pref, desc, l.LandSurface) {
			matched++
		}
	}

	return float64(matched) / float64(len(prefs)) * 10
}

func lifestyleMatch(pref, desc string, landSurface float64) bool {
	switch {
	case strings.Contains(pref, "calme"):
		return strings.Contains(desc, "calme") || strings.Contains(desc, "tranquille")
	case strings.Contains(pref, "anime"):
		return strings.Contains(desc, "proche commerces") || strings.Contains(desc, "centre")
	case strings.Contains(pref, "transport"):
		return strings.Contains(desc, "métro") || strings.Contains(desc, "gare")
	case strings.Contains(pref, "jardin"):
		return landSurface > 0 || strings.Contains(desc, "jardin")
	case strings.Contains(pref, "commerce"):
		return strings.Contains(desc, "commerce")
	case strings.Contains(pref, "ecole"):
		return strings.Contains(desc, "école") || strings.Contains(desc, "ecole")
	}
	return false
}

// valueScore compares the listing's price per square meter to the
// market reference. Listings without the figure stay neutral.
func valueScore(l *models.Listing, referencePricePerSqm float64) float64 {
	if l.PricePerSqm == nil || *l.PricePerSqm <= 0 || referencePricePerSqm <= 0 {
		return neutralScore
	}

	switch ratio := *l.PricePerSqm / referencePricePerSqm; {
	case ratio < 0.8:
		return 9
	case ratio < 1.0:
		return 7
	case ratio < 1.2:
		return 5
	default:
		return 3
	}
}

// bonusScore averages up to three independently-applicable bonuses:
// energy class, renovation status, construction year. With none
// applicable the sub-score stays neutral.
func bonusScore(l *models.Listing) float64 {
	var bonuses []float64

	if b, ok := energyBonus[strings.ToUpper(strings.TrimSpace(l.EnergyClass))]; ok {
		bonuses = append(bonuses, b)
	}

	switch l.Renovation {
	case models.RenovationNew:
		bonuses = append(bonuses, 10)
	case models.RenovationRenovated:
		bonuses = append(bonuses, 8)
	}

	if l.ConstructionYear != nil {
		switch year := *l.ConstructionYear; {
		case year >= 2020:
			bonuses = append(bonuses, 8)
		case year >= 2000:
			bonuses = append(bonuses, 5)
		}
	}

	if len(bonuses) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, b := range bonuses {
		sum += b
	}
	return sum / float64(len(bonuses))
}

// badgeFor derives the recommendation badge. The trending branch
// deliberately reads the raw value and criteria sub-scores rather
// than the blended final score.
func badgeFor(final, value, criteria float64) models.Badge {
	switch {
	case final >= 9.0:
		return models.BadgeFavorite
	case final >= 8.0:
		return models.BadgeRecommended
	case value >= 8 && criteria >= 7:
		return models.BadgeTrending
	default:
		return models.BadgeNone
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func buildReason(criteria, lifestyle, value, bonus float64) string {
	return fmt.Sprintf(
		"Critères %.1f/10, cadre de vie %.1f/10, rapport qualité-prix %.1f/10, atouts %.1f/10.",
		criteria, lifestyle, value, bonus,
	)
}

// Compute blends the four sub-scores into the final score, reason and
// badge. Missing criteria or profile degrade to neutral sub-scores.
func Compute(l *models.Listing, c *models.SearchCriteria, p *models.ConversationalProfile, w Weights) (score, criteria, lifestyle, value, bonus float64, badge models.Badge, reason string) {
	criteria = criteriaScore(l, c)
	lifestyle = lifestyleScore(l, p)
	value = valueScore(l, w.ReferencePricePerSqm)
	bonus = bonusScore(l)

	score = round1(criteria*w.Criteria + lifestyle*w.Lifestyle + value*w.Value + bonus*w.Bonus)
	badge = badgeFor(score, value, criteria)
	reason = buildReason(criteria, lifestyle, value, bonus)
	return score, criteria, lifestyle, value, bonus, badge, reason
}
