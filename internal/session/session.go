// Package session models the multi-turn conversation state: the profile
// onboarding sequence and the one-step food-amount follow-up. Transitions are
// pure functions of (state, input); effects (lookups, persistence) belong to
// the dialog service.
package session

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Step tags the conversation state variant for one chat.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingWeight
	StepAwaitingHeight
	StepAwaitingAge
	StepAwaitingActivity
	StepAwaitingCity
	StepAwaitingFoodAmount
)

// ProfileDraft accumulates answers across the onboarding steps.
type ProfileDraft struct {
	Weight          float64
	Height          float64
	Age             int
	ActivityMinutes int
	City            string
}

// PendingFood carries a resolved nutrition lookup while waiting for the
// consumed amount. Facts are per 100 g.
type PendingFood struct {
	UserID         uuid.UUID
	Name           string
	CaloriesPer100 float64
	ProteinPer100  float64
	FatPer100      float64
	CarbsPer100    float64
}

// State is the conversation state for one chat. The zero value is idle.
type State struct {
	Step  Step
	Draft ProfileDraft
	Food  *PendingFood
}

const (
	promptWeight   = "Enter your weight (kg):"
	promptHeight   = "Enter your height (cm):"
	promptAge      = "Enter your age:"
	promptActivity = "How many minutes of activity do you get per day?"
	promptCity     = "Which city are you in?"

	repromptWeight   = "Please enter a valid weight (kg):"
	repromptHeight   = "Please enter a valid height (cm):"
	repromptAge      = "Please enter a valid age:"
	repromptActivity = "Please enter a valid number of minutes (0-1440):"
	repromptCity     = "Please enter a valid city name:"
	repromptNumber   = "Please enter a number."
)

// StartProfile resets any in-progress state and begins the onboarding
// sequence. Re-issuing the start command mid-sequence discards partial data.
func StartProfile() (State, string) {
	return State{Step: StepAwaitingWeight}, promptWeight
}

// AdvanceProfile consumes one answer of the onboarding sequence. It returns
// the next state, the reply to send, and done=true once the city step has
// been accepted; at that point the caller computes the norms, persists the
// profile from the completed draft, and replaces the returned reply with the
// profile summary.
//
// Invalid input re-prompts without advancing.
func (s State) AdvanceProfile(input string) (State, string, bool) {
	input = strings.TrimSpace(input)

	switch s.Step {
	case StepAwaitingWeight:
		weight, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return s, repromptNumber, false
		}
		if weight <= 0 || weight > 300 {
			return s, repromptWeight, false
		}
		s.Draft.Weight = weight
		s.Step = StepAwaitingHeight
		return s, promptHeight, false

	case StepAwaitingHeight:
		height, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return s, repromptNumber, false
		}
		if height <= 0 || height > 250 {
			return s, repromptHeight, false
		}
		s.Draft.Height = height
		s.Step = StepAwaitingAge
		return s, promptAge, false

	case StepAwaitingAge:
		age, err := strconv.Atoi(input)
		if err != nil {
			return s, repromptNumber, false
		}
		if age <= 0 || age > 120 {
			return s, repromptAge, false
		}
		s.Draft.Age = age
		s.Step = StepAwaitingActivity
		return s, promptActivity, false

	case StepAwaitingActivity:
		minutes, err := strconv.Atoi(input)
		if err != nil {
			return s, repromptNumber, false
		}
		if minutes < 0 || minutes > 1440 {
			return s, repromptActivity, false
		}
		s.Draft.ActivityMinutes = minutes
		s.Step = StepAwaitingCity
		return s, promptCity, false

	case StepAwaitingCity:
		if utf8.RuneCountInString(input) < 2 {
			return s, repromptCity, false
		}
		s.Draft.City = input
		s.Step = StepIdle
		return s, "", true
	}

	return s, "", false
}

// AwaitFood enters the food-amount follow-up for a resolved product.
func AwaitFood(food PendingFood) State {
	return State{Step: StepAwaitingFoodAmount, Food: &food}
}

// ParseFoodAmount validates the consumed quantity (grams) for the follow-up
// step. Valid range is (0, 10000].
func ParseFoodAmount(input string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || amount <= 0 || amount > 10000 {
		return 0, false
	}
	return amount, true
}

// Onboarding reports whether the state is inside the profile sequence.
func (s State) Onboarding() bool {
	return s.Step >= StepAwaitingWeight && s.Step <= StepAwaitingCity
}
