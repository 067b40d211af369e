package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitTrackAPI/internal/dailystats"
	"fitTrackAPI/internal/norms"
	"fitTrackAPI/internal/profile"
	"fitTrackAPI/internal/session"
	"fitTrackAPI/internal/workout"
	"fitTrackAPI/middleware"
)

// Reply is one outbound message turn. Notice carries a transient "working"
// message that preceded Text; the dialog emits notices through the notify
// callback while a slow lookup is still in flight, and transports that cannot
// deliver interim frames surface the last one here.
type Reply struct {
	Text   string `json:"text"`
	Notice string `json:"notice,omitempty"`
}

type profileStore interface {
	GetByChatID(ctx context.Context, chatID int64) (*profile.User, error)
	Upsert(ctx context.Context, req *profile.UpsertRequest) (*profile.User, error)
}

type statsStore interface {
	GetOrCreateDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*dailystats.DailyStats, error)
	LogWater(ctx context.Context, userID uuid.UUID, amountML int) (*dailystats.DailyStats, error)
	LogFood(ctx context.Context, userID uuid.UUID, name string, amountG, calories, protein, fat, carbs float64) (*dailystats.DailyStats, error)
	LogWorkout(ctx context.Context, userID uuid.UUID, workoutType string, durationMin int, caloriesBurned float64, waterBonusML int) (*dailystats.DailyStats, error)
}

type temperatureSource interface {
	Temperature(ctx context.Context, city string) float64
}

type nutritionSource interface {
	Search(ctx context.Context, name string) (*NutritionFacts, error)
}

// DialogService turns one inbound text message into one reply. It owns the
// command dispatch and the conversation state; persistence and lookups are
// collaborators.
type DialogService struct {
	profiles  profileStore
	stats     statsStore
	weather   temperatureSource
	nutrition nutritionSource
	sessions  *session.Store
}

func NewDialogService(profiles profileStore, stats statsStore, weather temperatureSource, nutrition nutritionSource, sessions *session.Store) *DialogService {
	return &DialogService{
		profiles:  profiles,
		stats:     stats,
		weather:   weather,
		nutrition: nutrition,
		sessions:  sessions,
	}
}

const (
	replyNoProfile = "❌ Set up your profile first with start-profile"
	replyError     = "❌ Something went wrong, please try again."

	noticeSearching = "🔍 Searching for the product…"

	helpText = "Available commands:\n" +
		"• start-profile - set up your profile and daily targets\n" +
		"• log-water <ml> - log drunk water\n" +
		"• log-food <name> - log eaten food\n" +
		"• log-workout <type> <minutes> - log a workout\n" +
		"• check-progress - today's totals\n" +
		"• cancel - abort a pending dialog"
)

// HandleMessage processes one conversation turn for a chat. Commands are
// whitespace-delimited; while a multi-step dialog is pending, plain input
// feeds that dialog. start-profile and cancel always take priority so a
// pending state can be superseded.
//
// notify, when non-nil, is invoked with a transient status message before a
// slow external lookup starts, so the user sees it while waiting. It may be
// nil for transports that cannot deliver interim messages.
func (s *DialogService) HandleMessage(ctx context.Context, chatID int64, username, text string, notify func(string)) Reply {
	text = strings.TrimSpace(text)
	command, args, _ := strings.Cut(text, " ")
	command = strings.ToLower(command)
	args = strings.TrimSpace(args)

	switch command {
	case "start-profile":
		state, prompt := session.StartProfile()
		s.sessions.Set(chatID, state)
		record("start-profile", "ok")
		return Reply{Text: prompt}
	case "cancel":
		s.sessions.Clear(chatID)
		record("cancel", "ok")
		return Reply{Text: "Cancelled. Nothing is pending now."}
	}

	state := s.sessions.Get(chatID)
	if state.Onboarding() {
		return s.advanceOnboarding(ctx, chatID, username, state, text)
	}
	if state.Step == session.StepAwaitingFoodAmount {
		return s.finishFood(ctx, chatID, state, text)
	}

	switch command {
	case "log-water":
		return s.logWater(ctx, chatID, args)
	case "log-food":
		return s.lookupFood(ctx, chatID, args, notify)
	case "log-workout":
		return s.logWorkout(ctx, chatID, args)
	case "check-progress":
		return s.checkProgress(ctx, chatID)
	case "help":
		return Reply{Text: helpText}
	default:
		return Reply{Text: "Unknown command.\n\n" + helpText}
	}
}

func (s *DialogService) advanceOnboarding(ctx context.Context, chatID int64, username string, state session.State, input string) Reply {
	next, reply, done := state.AdvanceProfile(input)
	if !done {
		s.sessions.Set(chatID, next)
		return Reply{Text: reply}
	}

	s.sessions.Clear(chatID)
	return s.completeProfile(ctx, chatID, username, next.Draft)
}

// completeProfile runs the norm calculation for a finished draft and persists
// profile + goals together.
func (s *DialogService) completeProfile(ctx context.Context, chatID int64, username string, draft session.ProfileDraft) Reply {
	temperature := s.weather.Temperature(ctx, draft.City)
	n := norms.Compute(draft.Weight, draft.Height, draft.Age, draft.ActivityMinutes, temperature)

	user, err := s.profiles.Upsert(ctx, &profile.UpsertRequest{
		ChatID:          chatID,
		Username:        username,
		Weight:          draft.Weight,
		Height:          int(draft.Height),
		Age:             draft.Age,
		ActivityMinutes: draft.ActivityMinutes,
		City:            draft.City,
		WaterGoal:       n.WaterGoalML(),
		CalorieGoal:     n.TotalCalories,
	})
	if err != nil {
		log.Printf("Failed to upsert profile for chat %d: %v", chatID, err)
		record("start-profile", "error")
		return Reply{Text: replyError}
	}

	record("start-profile", "completed")
	return Reply{Text: profileSummary(user, n)}
}

func profileSummary(user *profile.User, n norms.Norms) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ Your profile is set up!\n\n")
	fmt.Fprintf(&b, "📊 Profile:\n")
	fmt.Fprintf(&b, "• Weight: %s kg\n", fmtFloat(user.Weight))
	fmt.Fprintf(&b, "• Height: %d cm\n", user.Height)
	fmt.Fprintf(&b, "• Age: %d\n", user.Age)
	fmt.Fprintf(&b, "• Activity: %d min/day (%s)\n", user.ActivityMinutes, n.ActivityLevel)
	fmt.Fprintf(&b, "• City: %s\n\n", user.City)

	fmt.Fprintf(&b, "💧 Water target: %s L/day\n", fmtFloat(n.TotalWater))
	fmt.Fprintf(&b, "├ Base: %.2f L (%s kg × 30 ml)\n", n.BaseWater, fmtFloat(user.Weight))
	fmt.Fprintf(&b, "├ Activity: +%.2f L\n", n.ActivityWater)
	if n.WeatherWater > 0 {
		fmt.Fprintf(&b, "├ Hot weather (%.1f°C): +%.1f L\n\n", n.Temperature, n.WeatherWater)
	} else {
		fmt.Fprintf(&b, "├ Weather (%.1f°C): no adjustment\n\n", n.Temperature)
	}

	fmt.Fprintf(&b, "🔥 Calorie target: %d kcal/day\n", n.TotalCalories)
	fmt.Fprintf(&b, "├ Basal metabolic rate: %.0f kcal\n", math.Floor(n.BMR))
	fmt.Fprintf(&b, "├ Activity factor: ×%s\n", fmtFloat(n.ActivityFactor))
	fmt.Fprintf(&b, "└ Activity bonus: +%d kcal", n.ActivityBonus)

	return b.String()
}

func (s *DialogService) logWater(ctx context.Context, chatID int64, args string) Reply {
	if args == "" {
		record("log-water", "invalid")
		return Reply{Text: "Usage: log-water <amount in ml>\nExample: log-water 250"}
	}

	amount, err := strconv.Atoi(args)
	if err != nil || amount <= 0 || amount > 5000 {
		record("log-water", "invalid")
		return Reply{Text: "❌ Please enter a valid amount (1-5000 ml)"}
	}

	user, reply, ok := s.requireProfile(ctx, chatID, "log-water")
	if !ok {
		return reply
	}

	stats, err := s.stats.LogWater(ctx, user.ID, amount)
	if err != nil {
		log.Printf("Failed to log water for chat %d: %v", chatID, err)
		record("log-water", "error")
		return Reply{Text: replyError}
	}

	p := dailystats.BuildProgress(stats)

	var b strings.Builder
	fmt.Fprintf(&b, "💧 Water logged: %d ml\n\n", amount)
	fmt.Fprintf(&b, "Today's progress:\n")
	fmt.Fprintf(&b, "• Consumed: %d ml of %d ml\n", p.WaterConsumed, p.WaterGoal)
	fmt.Fprintf(&b, "• Progress: %d%%\n", p.WaterPercent)
	if p.WaterRemaining > 0 {
		fmt.Fprintf(&b, "• Remaining: %d ml 💪", p.WaterRemaining)
	} else {
		fmt.Fprintf(&b, "• ✅ Goal reached! 🎉")
	}

	record("log-water", "ok")
	return Reply{Text: b.String()}
}

func (s *DialogService) lookupFood(ctx context.Context, chatID int64, name string, notify func(string)) Reply {
	if name == "" {
		record("log-food", "invalid")
		return Reply{Text: "Usage: log-food <product name>\nExample: log-food banana"}
	}

	user, reply, ok := s.requireProfile(ctx, chatID, "log-food")
	if !ok {
		return reply
	}

	// announce before the lookup, not after; the search can take seconds
	if notify != nil {
		notify(noticeSearching)
	}

	facts, err := s.nutrition.Search(ctx, name)
	if err != nil {
		if errors.Is(err, ErrFoodNotFound) {
			record("log-food", "not_found")
			return Reply{Text: fmt.Sprintf("❌ Product %q not found. Try another name.", name)}
		}
		log.Printf("Nutrition lookup for %q failed: %v", name, err)
		record("log-food", "error")
		return Reply{Text: "❌ Food search failed, please try again later."}
	}

	s.sessions.Set(chatID, session.AwaitFood(session.PendingFood{
		UserID:         user.ID,
		Name:           facts.Name,
		CaloriesPer100: facts.Calories,
		ProteinPer100:  facts.Protein,
		FatPer100:      facts.Fat,
		CarbsPer100:    facts.Carbs,
	}))

	var b strings.Builder
	fmt.Fprintf(&b, "🍽 %s\n\n", facts.Name)
	fmt.Fprintf(&b, "Per 100 g:\n")
	fmt.Fprintf(&b, "• Calories: %.1f kcal\n", facts.Calories)
	fmt.Fprintf(&b, "• Protein: %.1f g\n", facts.Protein)
	fmt.Fprintf(&b, "• Fat: %.1f g\n", facts.Fat)
	fmt.Fprintf(&b, "• Carbs: %.1f g\n\n", facts.Carbs)
	fmt.Fprintf(&b, "❓ How many grams did you eat?")

	record("log-food", "ok")
	return Reply{Text: b.String()}
}

func (s *DialogService) finishFood(ctx context.Context, chatID int64, state session.State, input string) Reply {
	amount, ok := session.ParseFoodAmount(input)
	if !ok {
		record("log-food", "invalid")
		return Reply{Text: "❌ Please enter a valid amount (1-10000 g)"}
	}

	food := state.Food
	calories := food.CaloriesPer100 * amount / 100
	protein := food.ProteinPer100 * amount / 100
	fat := food.FatPer100 * amount / 100
	carbs := food.CarbsPer100 * amount / 100

	stats, err := s.stats.LogFood(ctx, food.UserID, food.Name, amount, calories, protein, fat, carbs)
	if err != nil {
		log.Printf("Failed to log food for chat %d: %v", chatID, err)
		record("log-food", "error")
		return Reply{Text: replyError}
	}

	s.sessions.Clear(chatID)

	p := dailystats.BuildProgress(stats)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Logged: %.0f g %s\n\n", amount, food.Name)
	fmt.Fprintf(&b, "This serving:\n")
	fmt.Fprintf(&b, "• Calories: %.1f kcal\n", calories)
	fmt.Fprintf(&b, "• Protein: %.1f g\n", protein)
	fmt.Fprintf(&b, "• Fat: %.1f g\n", fat)
	fmt.Fprintf(&b, "• Carbs: %.1f g\n\n", carbs)
	fmt.Fprintf(&b, "🔥 Today's calories:\n")
	fmt.Fprintf(&b, "• Consumed: %.0f kcal of %d kcal\n", p.CaloriesConsumed, p.CalorieGoal)
	fmt.Fprintf(&b, "• Progress: %d%%\n", p.CaloriePercent)
	if overage := p.CaloriesConsumed - float64(p.CalorieGoal); overage > 0 {
		fmt.Fprintf(&b, "• ⚠️ Goal exceeded by %.0f kcal", overage)
	} else {
		fmt.Fprintf(&b, "• Remaining: %.0f kcal", p.CaloriesRemaining)
	}

	record("log-food", "completed")
	return Reply{Text: b.String()}
}

func (s *DialogService) logWorkout(ctx context.Context, chatID int64, args string) Reply {
	typeToken, durationArg, _ := strings.Cut(args, " ")
	if typeToken == "" || strings.TrimSpace(durationArg) == "" {
		record("log-workout", "invalid")
		return Reply{Text: "Usage: log-workout <type> <minutes>\n\n" +
			"Workout types:\n" + strings.Join(workout.Tokens(), ", ") +
			"\n\nExample: log-workout бег 30"}
	}

	kind, err := workout.Parse(typeToken)
	if err != nil {
		record("log-workout", "invalid")
		return Reply{Text: "❌ Unknown workout type. Valid types:\n" + strings.Join(workout.Tokens(), ", ")}
	}

	duration, err := strconv.Atoi(strings.TrimSpace(durationArg))
	if err != nil || duration <= 0 || duration > 600 {
		record("log-workout", "invalid")
		return Reply{Text: "❌ Duration must be between 1 and 600 minutes"}
	}

	user, reply, ok := s.requireProfile(ctx, chatID, "log-workout")
	if !ok {
		return reply
	}

	// Derived quantities use the profile's weight as of log time.
	caloriesBurned := kind.CaloriesBurned(user.Weight, duration)
	waterBonus := workout.WaterBonusML(duration)

	if _, err := s.stats.LogWorkout(ctx, user.ID, kind.Token, duration, caloriesBurned, waterBonus); err != nil {
		log.Printf("Failed to log workout for chat %d: %v", chatID, err)
		record("log-workout", "error")
		return Reply{Text: replyError}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Workout logged!\n\n", kind.Emoji)
	fmt.Fprintf(&b, "• Type: %s\n", kind.Token)
	fmt.Fprintf(&b, "• Duration: %d min\n", duration)
	fmt.Fprintf(&b, "• Calories burned: %.0f kcal\n", caloriesBurned)
	fmt.Fprintf(&b, "• Intensity: %s MET\n\n", fmtFloat(kind.MET))
	fmt.Fprintf(&b, "💧 Extra water for today: +%d ml\nDon't forget to drink! 🚰", waterBonus)

	record("log-workout", "ok")
	return Reply{Text: b.String()}
}

func (s *DialogService) checkProgress(ctx context.Context, chatID int64) Reply {
	user, reply, ok := s.requireProfile(ctx, chatID, "check-progress")
	if !ok {
		return reply
	}

	stats, err := s.stats.GetOrCreateDaily(ctx, user.ID, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		log.Printf("Failed to load daily stats for chat %d: %v", chatID, err)
		record("check-progress", "error")
		return Reply{Text: replyError}
	}

	p := dailystats.BuildProgress(stats)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Today's progress\n\n")
	fmt.Fprintf(&b, "💧 Water:\n")
	fmt.Fprintf(&b, "• Consumed: %d ml of %d ml\n", p.WaterConsumed, p.WaterGoal)
	fmt.Fprintf(&b, "• Progress: %d%%\n", p.WaterPercent)
	fmt.Fprintf(&b, "• Remaining: %d ml\n\n", p.WaterRemaining)
	fmt.Fprintf(&b, "🔥 Calories:\n")
	fmt.Fprintf(&b, "• Consumed: %.0f kcal of %d kcal\n", p.CaloriesConsumed, p.CalorieGoal)
	fmt.Fprintf(&b, "• Burned: %.0f kcal\n", p.CaloriesBurned)
	fmt.Fprintf(&b, "• Balance: %.0f kcal\n", p.CalorieBalance)
	fmt.Fprintf(&b, "• Progress: %d%%\n\n", p.CaloriePercent)
	fmt.Fprintf(&b, "🍽 Macros:\n")
	fmt.Fprintf(&b, "• Protein: %.1f g\n", p.Protein)
	fmt.Fprintf(&b, "• Fat: %.1f g\n", p.Fat)
	fmt.Fprintf(&b, "• Carbs: %.1f g", p.Carbs)

	record("check-progress", "ok")
	return Reply{Text: b.String()}
}

// requireProfile loads the caller's profile, translating the missing-profile
// precondition into its dedicated reply.
func (s *DialogService) requireProfile(ctx context.Context, chatID int64, command string) (*profile.User, Reply, bool) {
	user, err := s.profiles.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			record(command, "no_profile")
			return nil, Reply{Text: replyNoProfile}, false
		}
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		record(command, "error")
		return nil, Reply{Text: replyError}, false
	}
	return user, Reply{}, true
}

func record(command, outcome string) {
	middleware.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// fmtFloat renders a float without trailing zeros (70, 70.5, 1.55).
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
