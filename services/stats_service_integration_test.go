//go:build integration

package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"fitTrackAPI/internal/profile"
)

func startDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("fittrack"),
		postgrescontainer.WithUsername("fittrack"),
		postgrescontainer.WithPassword("fittrack"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	schema, err := os.ReadFile(schemaPath(t))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	return pool
}

func schemaPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "db", "001_init.sql")
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func seedProfile(t *testing.T, profiles *ProfileService) *profile.User {
	t.Helper()
	user, err := profiles.Upsert(context.Background(), &profile.UpsertRequest{
		ChatID:          42,
		Username:        "alice",
		Weight:          70,
		Height:          175,
		Age:             30,
		ActivityMinutes: 45,
		City:            "Sofia",
		WaterGoal:       2850,
		CalorieGoal:     2439,
	})
	require.NoError(t, err)
	return user
}

func TestProfileUpsertOverwrites(t *testing.T) {
	pool := startDatabase(t)
	profiles := NewProfileService(pool)
	ctx := context.Background()

	first := seedProfile(t, profiles)

	// re-running onboarding overwrites every field but keeps the identity
	second, err := profiles.Upsert(ctx, &profile.UpsertRequest{
		ChatID:          42,
		Username:        "alice",
		Weight:          80,
		Height:          175,
		Age:             31,
		ActivityMinutes: 90,
		City:            "Varna",
		WaterGoal:       3900,
		CalorieGoal:     3113,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	loaded, err := profiles.GetByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 80.0, loaded.Weight)
	assert.Equal(t, "Varna", loaded.City)
	assert.Equal(t, 3900, loaded.WaterGoal)
	assert.Equal(t, 3113, loaded.CalorieGoal)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestProfileDeleteCascades(t *testing.T) {
	pool := startDatabase(t)
	profiles := NewProfileService(pool)
	stats := NewStatsService(pool)
	ctx := context.Background()

	user := seedProfile(t, profiles)
	_, err := stats.LogWater(ctx, user.ID, 250)
	require.NoError(t, err)

	require.NoError(t, profiles.DeleteByChatID(ctx, 42))

	_, err = profiles.GetByChatID(ctx, 42)
	assert.ErrorIs(t, err, profile.ErrNoProfile)
	assert.ErrorIs(t, profiles.DeleteByChatID(ctx, 42), profile.ErrNoProfile)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM water_logs`).Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_stats`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestGetOrCreateDailyIdempotent(t *testing.T) {
	pool := startDatabase(t)
	stats := NewStatsService(pool)
	user := seedProfile(t, NewProfileService(pool))
	ctx := context.Background()
	today := logDate()

	first, err := stats.GetOrCreateDaily(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 2850, first.WaterGoal)
	assert.Equal(t, 2439, first.CalorieGoal)
	assert.Zero(t, first.TotalWater)

	second, err := stats.GetOrCreateDaily(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_stats`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLogWaterAccumulates(t *testing.T) {
	pool := startDatabase(t)
	stats := NewStatsService(pool)
	user := seedProfile(t, NewProfileService(pool))
	ctx := context.Background()

	var total int
	for _, amount := range []int{250, 300, 450} {
		st, err := stats.LogWater(ctx, user.ID, amount)
		require.NoError(t, err)
		total += amount
		assert.Equal(t, total, st.TotalWater)
	}

	var logs, days int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM water_logs`).Scan(&logs))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_stats`).Scan(&days))
	assert.Equal(t, 3, logs)
	assert.Equal(t, 1, days)
}

func TestLogFoodAccumulatesMacros(t *testing.T) {
	pool := startDatabase(t)
	stats := NewStatsService(pool)
	user := seedProfile(t, NewProfileService(pool))
	ctx := context.Background()

	_, err := stats.LogFood(ctx, user.ID, "Banana", 150, 133.5, 1.65, 0.45, 34.5)
	require.NoError(t, err)
	st, err := stats.LogFood(ctx, user.ID, "Oat flakes", 100, 379, 13.5, 7, 67.7)
	require.NoError(t, err)

	assert.InDelta(t, 512.5, st.TotalCalories, 1e-9)
	assert.InDelta(t, 15.15, st.TotalProtein, 1e-9)
	assert.InDelta(t, 7.45, st.TotalFat, 1e-9)
	assert.InDelta(t, 102.2, st.TotalCarbs, 1e-9)

	entries, err := stats.TodayEntries(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries.Food, 2)
	assert.Equal(t, "Banana", entries.Food[0].FoodName)
	assert.Equal(t, 150.0, entries.Food[0].Amount)
}

func TestLogWorkoutBumpsBurnedAndWaterGoal(t *testing.T) {
	pool := startDatabase(t)
	stats := NewStatsService(pool)
	user := seedProfile(t, NewProfileService(pool))
	ctx := context.Background()

	st, err := stats.LogWorkout(ctx, user.ID, "бег", 30, 290.5, 200)
	require.NoError(t, err)

	assert.InDelta(t, 290.5, st.BurnedCalories, 1e-9)
	assert.Equal(t, 2850+200, st.WaterGoal)
	assert.Equal(t, 2439, st.CalorieGoal)
	assert.Zero(t, st.TotalCalories)

	// the raised goal sticks for later reads of the same day
	reread, err := stats.GetOrCreateDaily(ctx, user.ID, logDate())
	require.NoError(t, err)
	assert.Equal(t, 3050, reread.WaterGoal)

	entries, err := stats.TodayEntries(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries.Workouts, 1)
	assert.Equal(t, "бег", entries.Workouts[0].WorkoutType)
	assert.Equal(t, 200, entries.Workouts[0].WaterNeeded)
}

func TestLogWaterForUnknownUserFails(t *testing.T) {
	pool := startDatabase(t)
	stats := NewStatsService(pool)

	_, err := stats.LogWater(context.Background(), uuid.New(), 250)
	require.Error(t, err)
}
