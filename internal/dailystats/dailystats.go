// Package dailystats models the single running-totals record each user has
// per calendar date, plus the read-only progress view computed from it.
package dailystats

import (
	"time"

	"github.com/google/uuid"

	"fitTrackAPI/utils"
)

// DailyStats accumulates one day's logged activity. Goals are seeded from the
// profile when the row is created; workouts may raise WaterGoal during the
// day, everything else only grows.
type DailyStats struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	StatDate time.Time `json:"statDate"`

	TotalWater int `json:"totalWater"` // ml
	WaterGoal  int `json:"waterGoal"`  // ml

	TotalCalories  float64 `json:"totalCalories"`
	BurnedCalories float64 `json:"burnedCalories"`
	CalorieGoal    int     `json:"calorieGoal"`

	TotalProtein float64 `json:"totalProtein"`
	TotalFat     float64 `json:"totalFat"`
	TotalCarbs   float64 `json:"totalCarbs"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Progress is the derived read view of a day. Percentages are clamped to
// [0,100] and are 0 when the corresponding goal is 0.
type Progress struct {
	Date string `json:"date"`

	WaterConsumed  int `json:"waterConsumed"`
	WaterGoal      int `json:"waterGoal"`
	WaterPercent   int `json:"waterPercent"`
	WaterRemaining int `json:"waterRemaining"`

	CaloriesConsumed  float64 `json:"caloriesConsumed"`
	CaloriesBurned    float64 `json:"caloriesBurned"`
	CalorieGoal       int     `json:"calorieGoal"`
	CaloriePercent    int     `json:"caloriePercent"`
	CalorieBalance    float64 `json:"calorieBalance"`
	CaloriesRemaining float64 `json:"caloriesRemaining"`

	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// BuildProgress computes the progress view for a day's stats.
func BuildProgress(st *DailyStats) Progress {
	return Progress{
		Date: st.StatDate.Format("2006-01-02"),

		WaterConsumed:  st.TotalWater,
		WaterGoal:      st.WaterGoal,
		WaterPercent:   utils.Percent(float64(st.TotalWater), float64(st.WaterGoal)),
		WaterRemaining: int(utils.Remaining(float64(st.TotalWater), float64(st.WaterGoal))),

		CaloriesConsumed:  st.TotalCalories,
		CaloriesBurned:    st.BurnedCalories,
		CalorieGoal:       st.CalorieGoal,
		CaloriePercent:    utils.Percent(st.TotalCalories, float64(st.CalorieGoal)),
		CalorieBalance:    st.TotalCalories - st.BurnedCalories,
		CaloriesRemaining: utils.Remaining(st.TotalCalories, float64(st.CalorieGoal)),

		Protein: st.TotalProtein,
		Fat:     st.TotalFat,
		Carbs:   st.TotalCarbs,
	}
}
