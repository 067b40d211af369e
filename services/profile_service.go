package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/profile"
)

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, chat_id, username, weight, height, age, activity_minutes, city, water_goal, calorie_goal, created_at, updated_at`

// GetByChatID resolves the stable chat identity to a profile. Returns
// profile.ErrNoProfile when the user has never completed onboarding.
func (s *ProfileService) GetByChatID(ctx context.Context, chatID int64) (*profile.User, error) {
	query := `
	SELECT ` + profileColumns + `
	FROM users
	WHERE chat_id = $1
	`

	user := &profile.User{}
	err := s.db.QueryRow(ctx, query, chatID).Scan(
		&user.ID,
		&user.ChatID,
		&user.Username,
		&user.Weight,
		&user.Height,
		&user.Age,
		&user.ActivityMinutes,
		&user.City,
		&user.WaterGoal,
		&user.CalorieGoal,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNoProfile
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Upsert creates the profile on first onboarding completion and overwrites
// every profile field and both goals on subsequent completions. No history is
// kept.
func (s *ProfileService) Upsert(ctx context.Context, req *profile.UpsertRequest) (*profile.User, error) {
	query := `
	INSERT INTO users (id, chat_id, username, weight, height, age, activity_minutes, city, water_goal, calorie_goal)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (chat_id) DO UPDATE SET
		username = EXCLUDED.username,
		weight = EXCLUDED.weight,
		height = EXCLUDED.height,
		age = EXCLUDED.age,
		activity_minutes = EXCLUDED.activity_minutes,
		city = EXCLUDED.city,
		water_goal = EXCLUDED.water_goal,
		calorie_goal = EXCLUDED.calorie_goal,
		updated_at = NOW()
	RETURNING ` + profileColumns

	user := &profile.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		req.ChatID,
		req.Username,
		req.Weight,
		req.Height,
		req.Age,
		req.ActivityMinutes,
		req.City,
		req.WaterGoal,
		req.CalorieGoal,
	).Scan(
		&user.ID,
		&user.ChatID,
		&user.Username,
		&user.Weight,
		&user.Height,
		&user.Age,
		&user.ActivityMinutes,
		&user.City,
		&user.WaterGoal,
		&user.CalorieGoal,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return user, nil
}

// DeleteByChatID removes the user; log entries and daily stats go with it via
// ON DELETE CASCADE.
func (s *ProfileService) DeleteByChatID(ctx context.Context, chatID int64) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return profile.ErrNoProfile
	}
	return nil
}
