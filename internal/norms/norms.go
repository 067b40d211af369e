// Package norms derives daily water and calorie targets from a user's
// physiological profile and the current temperature in their city.
package norms

import (
	"math"

	"fitTrackAPI/utils"
)

// Norms is the full calculation breakdown. The individual components are kept
// alongside the totals so replies can show how a target was derived.
type Norms struct {
	TotalWater    float64 `json:"totalWater"`    // liters/day, rounded to 2 decimals
	BaseWater     float64 `json:"baseWater"`     // liters, weight * 30ml
	ActivityWater float64 `json:"activityWater"` // liters, 0.5 per 30 active minutes
	WeatherWater  float64 `json:"weatherWater"`  // liters, hot-weather bonus

	TotalCalories  int     `json:"totalCalories"` // kcal/day, floor(BMR * factor)
	BMR            float64 `json:"bmr"`           // Mifflin-St Jeor basal rate
	ActivityFactor float64 `json:"activityFactor"`
	ActivityBonus  int     `json:"activityBonus"` // TotalCalories - floor(BMR)
	ActivityLevel  string  `json:"activityLevel"`

	Temperature float64 `json:"temperature"` // Celsius, as used for the weather bonus
}

// activityBand maps a minimum daily active-minutes threshold to a calorie
// multiplier. Bands are checked from the highest threshold down.
type activityBand struct {
	minMinutes int
	factor     float64
	level      string
}

var activityBands = []activityBand{
	{90, 1.9, "very high"},
	{60, 1.725, "high"},
	{30, 1.55, "moderate"},
	{1, 1.375, "low"},
	{0, 1.2, "minimal"},
}

// Compute derives the daily water and calorie targets. It is a pure function;
// the temperature is looked up by the caller (see services.WeatherService).
func Compute(weightKg, heightCm float64, ageYears, activityMinutes int, temperatureC float64) Norms {
	baseWater := weightKg * 30 / 1000
	activityWater := float64(activityMinutes) / 30 * 0.5
	weatherWater := weatherBonus(temperatureC)

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears) + 5

	factor, level := activityFactor(activityMinutes)
	totalCalories := int(math.Floor(bmr * factor))

	return Norms{
		TotalWater:     utils.Round2(baseWater + activityWater + weatherWater),
		BaseWater:      baseWater,
		ActivityWater:  activityWater,
		WeatherWater:   weatherWater,
		TotalCalories:  totalCalories,
		BMR:            bmr,
		ActivityFactor: factor,
		ActivityBonus:  totalCalories - int(math.Floor(bmr)),
		ActivityLevel:  level,
		Temperature:    temperatureC,
	}
}

// weatherBonus is the extra water (liters) for hot weather: +0.5L above 25°C,
// +1L above 30°C.
func weatherBonus(temperatureC float64) float64 {
	switch {
	case temperatureC > 30:
		return 1.0
	case temperatureC > 25:
		return 0.5
	default:
		return 0
	}
}

func activityFactor(activityMinutes int) (float64, string) {
	for _, band := range activityBands {
		if activityMinutes >= band.minMinutes {
			return band.factor, band.level
		}
	}
	// unreachable for non-negative minutes; the lowest band matches 0
	return activityBands[len(activityBands)-1].factor, activityBands[len(activityBands)-1].level
}

// WaterGoalML converts the calculated water target to the milliliter integer
// stored on the profile and daily stats.
func (n Norms) WaterGoalML() int {
	return int(math.Round(n.TotalWater * 1000))
}
