package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/dailylog"
	"fitTrackAPI/internal/dailystats"
)

// StatsService owns the per-(user, date) daily aggregate and the three log
// tables. Every logging method writes the immutable log entry and the
// aggregate increment in one transaction: the two can never diverge.
type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the get-or-create
// can run standalone or inside a logging transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const dailyStatsColumns = `id, user_id, stat_date, total_water, water_goal, total_calories, burned_calories, calorie_goal, total_protein, total_fat, total_carbs, created_at, updated_at`

// GetOrCreateDaily fetches the aggregate for (user, date), creating it seeded
// from the profile's current goals if the day has not been touched yet. The
// UNIQUE (user_id, stat_date) constraint plus ON CONFLICT DO NOTHING makes
// concurrent creates collapse to one row.
func (s *StatsService) GetOrCreateDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*dailystats.DailyStats, error) {
	return getOrCreateDaily(ctx, s.db, userID, date)
}

func getOrCreateDaily(ctx context.Context, q querier, userID uuid.UUID, date time.Time) (*dailystats.DailyStats, error) {
	_, err := q.Exec(ctx, `
		INSERT INTO daily_stats (id, user_id, stat_date, water_goal, calorie_goal)
		SELECT $1, u.id, $2, COALESCE(u.water_goal, 0), COALESCE(u.calorie_goal, 0)
		FROM users u
		WHERE u.id = $3
		ON CONFLICT (user_id, stat_date) DO NOTHING
	`, uuid.New(), date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily stats: %w", err)
	}

	row := q.QueryRow(ctx, `
		SELECT `+dailyStatsColumns+`
		FROM daily_stats
		WHERE user_id = $1 AND stat_date = $2
	`, userID, date)

	return scanDailyStats(row)
}

// LogWater appends a water log entry and bumps total_water atomically.
func (s *StatsService) LogWater(ctx context.Context, userID uuid.UUID, amountML int) (*dailystats.DailyStats, error) {
	today := logDate()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO water_logs (id, user_id, amount, log_date)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), userID, amountML, today)
	if err != nil {
		return nil, fmt.Errorf("failed to insert water log: %w", err)
	}

	if _, err := getOrCreateDaily(ctx, tx, userID, today); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE daily_stats
		SET total_water = total_water + $1, updated_at = NOW()
		WHERE user_id = $2 AND stat_date = $3
		RETURNING `+dailyStatsColumns, amountML, userID, today)

	stats, err := scanDailyStats(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// LogFood appends a food log entry with the derived macros (already computed
// from per-100g facts × amount) and bumps the calorie and macro totals.
func (s *StatsService) LogFood(ctx context.Context, userID uuid.UUID, name string, amountG, calories, protein, fat, carbs float64) (*dailystats.DailyStats, error) {
	today := logDate()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO food_logs (id, user_id, food_name, calories, amount, protein, fat, carbs, log_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.New(), userID, name, calories, amountG, protein, fat, carbs, today)
	if err != nil {
		return nil, fmt.Errorf("failed to insert food log: %w", err)
	}

	if _, err := getOrCreateDaily(ctx, tx, userID, today); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE daily_stats
		SET total_calories = total_calories + $1,
		    total_protein = total_protein + $2,
		    total_fat = total_fat + $3,
		    total_carbs = total_carbs + $4,
		    updated_at = NOW()
		WHERE user_id = $5 AND stat_date = $6
		RETURNING `+dailyStatsColumns, calories, protein, fat, carbs, userID, today)

	stats, err := scanDailyStats(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// LogWorkout appends a workout log entry and applies its two aggregate
// effects: burned calories go up, and the day's water goal grows by the
// hydration bonus. Workouts never touch the calorie goal.
func (s *StatsService) LogWorkout(ctx context.Context, userID uuid.UUID, workoutType string, durationMin int, caloriesBurned float64, waterBonusML int) (*dailystats.DailyStats, error) {
	today := logDate()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO workout_logs (id, user_id, workout_type, duration, calories_burned, water_needed, log_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New(), userID, workoutType, durationMin, caloriesBurned, waterBonusML, today)
	if err != nil {
		return nil, fmt.Errorf("failed to insert workout log: %w", err)
	}

	if _, err := getOrCreateDaily(ctx, tx, userID, today); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE daily_stats
		SET burned_calories = burned_calories + $1,
		    water_goal = water_goal + $2,
		    updated_at = NOW()
		WHERE user_id = $3 AND stat_date = $4
		RETURNING `+dailyStatsColumns, caloriesBurned, waterBonusML, userID, today)

	stats, err := scanDailyStats(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// TodayEntries returns the individual log entries behind today's aggregate,
// in logged order.
func (s *StatsService) TodayEntries(ctx context.Context, userID uuid.UUID) (*dailylog.DayEntries, error) {
	today := logDate()
	entries := &dailylog.DayEntries{
		Date:     today.Format("2006-01-02"),
		Water:    []dailylog.WaterLog{},
		Food:     []dailylog.FoodLog{},
		Workouts: []dailylog.WorkoutLog{},
	}

	waterRows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, logged_at, log_date
		FROM water_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY logged_at
	`, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query water logs: %w", err)
	}
	defer waterRows.Close()
	for waterRows.Next() {
		var entry dailylog.WaterLog
		if err := waterRows.Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.LoggedAt, &entry.LogDate); err != nil {
			return nil, fmt.Errorf("failed to scan water log: %w", err)
		}
		entries.Water = append(entries.Water, entry)
	}
	if err := waterRows.Err(); err != nil {
		return nil, err
	}

	foodRows, err := s.db.Query(ctx, `
		SELECT id, user_id, food_name, calories, amount, protein, fat, carbs, logged_at, log_date
		FROM food_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY logged_at
	`, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query food logs: %w", err)
	}
	defer foodRows.Close()
	for foodRows.Next() {
		var entry dailylog.FoodLog
		if err := foodRows.Scan(&entry.ID, &entry.UserID, &entry.FoodName, &entry.Calories, &entry.Amount,
			&entry.Protein, &entry.Fat, &entry.Carbs, &entry.LoggedAt, &entry.LogDate); err != nil {
			return nil, fmt.Errorf("failed to scan food log: %w", err)
		}
		entries.Food = append(entries.Food, entry)
	}
	if err := foodRows.Err(); err != nil {
		return nil, err
	}

	workoutRows, err := s.db.Query(ctx, `
		SELECT id, user_id, workout_type, duration, calories_burned, water_needed, logged_at, log_date
		FROM workout_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY logged_at
	`, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query workout logs: %w", err)
	}
	defer workoutRows.Close()
	for workoutRows.Next() {
		var entry dailylog.WorkoutLog
		if err := workoutRows.Scan(&entry.ID, &entry.UserID, &entry.WorkoutType, &entry.Duration,
			&entry.CaloriesBurned, &entry.WaterNeeded, &entry.LoggedAt, &entry.LogDate); err != nil {
			return nil, fmt.Errorf("failed to scan workout log: %w", err)
		}
		entries.Workouts = append(entries.Workouts, entry)
	}
	if err := workoutRows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// logDate is the server-assigned calendar date for new entries. Client dates
// are never trusted.
func logDate() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func scanDailyStats(row pgx.Row) (*dailystats.DailyStats, error) {
	stats := &dailystats.DailyStats{}
	err := row.Scan(
		&stats.ID,
		&stats.UserID,
		&stats.StatDate,
		&stats.TotalWater,
		&stats.WaterGoal,
		&stats.TotalCalories,
		&stats.BurnedCalories,
		&stats.CalorieGoal,
		&stats.TotalProtein,
		&stats.TotalFat,
		&stats.TotalCarbs,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily stats: %w", err)
	}
	return stats, nil
}
