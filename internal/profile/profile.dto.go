package profile

// UpsertRequest carries a completed onboarding result. Both goals come from
// the same norm calculation as the physical fields.
type UpsertRequest struct {
	ChatID          int64
	Username        string
	Weight          float64
	Height          int
	Age             int
	ActivityMinutes int
	City            string
	WaterGoal       int
	CalorieGoal     int
}
