// Package dailylog holds the immutable per-event log records. Entries are
// append-only: derived quantities are computed once at log time and never
// edited afterwards.
package dailylog

import (
	"time"

	"github.com/google/uuid"
)

type WaterLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Amount   int       `json:"amount"` // ml
	LoggedAt time.Time `json:"loggedAt"`
	LogDate  time.Time `json:"logDate"`
}

type FoodLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	FoodName string    `json:"foodName"`
	Calories float64   `json:"calories"` // kcal for the consumed amount
	Amount   float64   `json:"amount"`   // grams
	Protein  float64   `json:"protein"`
	Fat      float64   `json:"fat"`
	Carbs    float64   `json:"carbs"`
	LoggedAt time.Time `json:"loggedAt"`
	LogDate  time.Time `json:"logDate"`
}

// DayEntries groups one day's individual entries for the history view. Slices
// are in logged order and empty (not nil) when nothing was logged.
type DayEntries struct {
	Date     string       `json:"date"`
	Water    []WaterLog   `json:"water"`
	Food     []FoodLog    `json:"food"`
	Workouts []WorkoutLog `json:"workouts"`
}

type WorkoutLog struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	WorkoutType    string    `json:"workoutType"`
	Duration       int       `json:"duration"` // minutes
	CaloriesBurned float64   `json:"caloriesBurned"`
	WaterNeeded    int       `json:"waterNeeded"` // ml added to the day's water goal
	LoggedAt       time.Time `json:"loggedAt"`
	LogDate        time.Time `json:"logDate"`
}
