package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoProfile marks the precondition failure for commands that require a
// completed profile. Handlers translate it to a "set up your profile first"
// reply rather than an error response.
var ErrNoProfile = errors.New("profile not set up")

// User is a tracked end user. Goals are always written together from one norm
// calculation; they are never set independently.
type User struct {
	ID       uuid.UUID `json:"id"`
	ChatID   int64     `json:"chatId"`
	Username string    `json:"username,omitempty"`

	Weight          float64 `json:"weight"`          // kg
	Height          int     `json:"height"`          // cm
	Age             int     `json:"age"`             // years
	ActivityMinutes int     `json:"activityMinutes"` // per day
	City            string  `json:"city"`

	WaterGoal   int `json:"waterGoal"`   // ml/day
	CalorieGoal int `json:"calorieGoal"` // kcal/day

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
