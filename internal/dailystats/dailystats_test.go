package dailystats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildProgress(t *testing.T) {
	st := &DailyStats{
		StatDate:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		TotalWater:     550,
		WaterGoal:      2000,
		TotalCalories:  1830,
		BurnedCalories: 290.5,
		CalorieGoal:    2439,
		TotalProtein:   41.2,
		TotalFat:       12.9,
		TotalCarbs:     230,
	}

	p := BuildProgress(st)

	assert.Equal(t, "2026-08-31", p.Date)
	assert.Equal(t, 27, p.WaterPercent)
	assert.Equal(t, 1450, p.WaterRemaining)
	assert.Equal(t, 75, p.CaloriePercent)
	assert.InDelta(t, 1830-290.5, p.CalorieBalance, 1e-9)
	assert.InDelta(t, 609.0, p.CaloriesRemaining, 1e-9)
}

// Fresh day with goals still unset: no division by zero, everything reads 0.
func TestBuildProgressZeroGoals(t *testing.T) {
	p := BuildProgress(&DailyStats{StatDate: time.Now(), TotalWater: 500, TotalCalories: 300})

	assert.Equal(t, 0, p.WaterPercent)
	assert.Equal(t, 0, p.CaloriePercent)
	assert.Equal(t, 0, p.WaterRemaining)
	assert.Equal(t, 0.0, p.CaloriesRemaining)
}

func TestBuildProgressClampsAt100(t *testing.T) {
	p := BuildProgress(&DailyStats{
		StatDate:      time.Now(),
		TotalWater:    2600,
		WaterGoal:     2000,
		TotalCalories: 3000,
		CalorieGoal:   2439,
	})

	assert.Equal(t, 100, p.WaterPercent)
	assert.Equal(t, 100, p.CaloriePercent)
	assert.Equal(t, 0, p.WaterRemaining)
}
