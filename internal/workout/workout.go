// Package workout defines the closed catalog of trackable workout kinds and
// the derived-quantity formulas for a logged session.
package workout

import (
	"errors"
	"math"
	"strings"
)

// ErrUnknownType is returned by Parse for a token outside the catalog.
var ErrUnknownType = errors.New("unknown workout type")

// Kind is one entry of the workout catalog. Token is the canonical name
// stored in workout logs; Alias is an accepted alternative spelling.
type Kind struct {
	Token string
	Alias string
	MET   float64
	Emoji string
}

// catalog is the closed set of workout kinds with their MET intensity values.
// Order is the display order in help/error replies.
var catalog = []Kind{
	{"бег", "running", 8.3, "🏃‍♂️"},
	{"ходьба", "walking", 3.5, "🚶"},
	{"плавание", "swimming", 5.8, "🏊"},
	{"велосипед", "cycling", 5.8, "🚴"},
	{"йога", "yoga", 2.5, "🧘"},
	{"силовая", "strength", 3.5, "💪"},
	{"hiit", "hiit", 8.0, "🔥"},
	{"танцы", "dancing", 4.5, "💃"},
	{"футбол", "football", 7.0, "⚽"},
	{"баскетбол", "basketball", 6.5, "🏀"},
	{"теннис", "tennis", 7.3, "🎾"},
	{"скакалка", "jumprope", 12.3, "🪢"},
	{"эллипсоид", "elliptical", 5.0, "🏋️"},
}

// Parse resolves a user-supplied token (case-insensitive, canonical name or
// alias) to a catalog entry.
func Parse(token string) (Kind, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	for _, k := range catalog {
		if token == k.Token || token == k.Alias {
			return k, nil
		}
	}
	return Kind{}, ErrUnknownType
}

// Tokens returns the canonical names of every catalog entry, for "valid set"
// replies on unknown input.
func Tokens() []string {
	out := make([]string, len(catalog))
	for i, k := range catalog {
		out[i] = k.Token
	}
	return out
}

// CaloriesBurned estimates energy expenditure for a session:
// MET × body weight (kg) × duration in hours.
func (k Kind) CaloriesBurned(weightKg float64, durationMin int) float64 {
	return k.MET * weightKg * float64(durationMin) / 60
}

// WaterBonusML is the extra water the day's goal gains from a session:
// 200ml per 30 minutes, floored.
func WaterBonusML(durationMin int) int {
	return int(math.Floor(float64(durationMin) / 30 * 200))
}
