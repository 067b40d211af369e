package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingHappyPath(t *testing.T) {
	st, prompt := StartProfile()
	assert.Equal(t, StepAwaitingWeight, st.Step)
	assert.NotEmpty(t, prompt)

	steps := []struct {
		input    string
		nextStep Step
	}{
		{"70", StepAwaitingHeight},
		{"175", StepAwaitingAge},
		{"30", StepAwaitingActivity},
		{"45", StepAwaitingCity},
	}

	for _, s := range steps {
		var done bool
		st, _, done = st.AdvanceProfile(s.input)
		require.False(t, done)
		require.Equal(t, s.nextStep, st.Step)
	}

	st, reply, done := st.AdvanceProfile("  Sofia ")
	require.True(t, done)
	assert.Empty(t, reply)
	assert.Equal(t, StepIdle, st.Step)

	assert.Equal(t, ProfileDraft{
		Weight:          70,
		Height:          175,
		Age:             30,
		ActivityMinutes: 45,
		City:            "Sofia",
	}, st.Draft)
}

func TestInvalidInputRepromptsWithoutAdvancing(t *testing.T) {
	cases := []struct {
		name   string
		step   Step
		inputs []string
	}{
		{"weight", StepAwaitingWeight, []string{"abc", "0", "-5", "300.1"}},
		{"height", StepAwaitingHeight, []string{"tall", "0", "251"}},
		{"age", StepAwaitingAge, []string{"young", "0", "121", "30.5"}},
		{"activity", StepAwaitingActivity, []string{"lots", "-1", "1441"}},
		{"city", StepAwaitingCity, []string{"", " ", "A"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, input := range tc.inputs {
				st := State{Step: tc.step}
				next, reply, done := st.AdvanceProfile(input)
				assert.False(t, done, "input %q", input)
				assert.Equal(t, tc.step, next.Step, "input %q", input)
				assert.NotEmpty(t, reply, "input %q", input)
			}
		})
	}
}

// A two-rune city is the minimum accepted; multibyte names count in runes.
func TestCityLengthCountsRunes(t *testing.T) {
	st := State{Step: StepAwaitingCity}
	next, _, done := st.AdvanceProfile("Уфа")
	require.True(t, done)
	assert.Equal(t, "Уфа", next.Draft.City)
}

func TestStartProfileDiscardsPartialData(t *testing.T) {
	st, _ := StartProfile()
	st, _, _ = st.AdvanceProfile("70")
	st, _, _ = st.AdvanceProfile("175")
	require.Equal(t, StepAwaitingAge, st.Step)

	st, _ = StartProfile()
	assert.Equal(t, StepAwaitingWeight, st.Step)
	assert.Equal(t, ProfileDraft{}, st.Draft)
}

func TestParseFoodAmount(t *testing.T) {
	amount, ok := ParseFoodAmount("150")
	require.True(t, ok)
	assert.Equal(t, 150.0, amount)

	for _, bad := range []string{"", "nan stuff", "0", "-3", "10001"} {
		_, ok := ParseFoodAmount(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestStore(t *testing.T) {
	store := NewStore()
	assert.Equal(t, StepIdle, store.Get(1).Step)

	store.Set(1, AwaitFood(PendingFood{UserID: uuid.New(), Name: "banana"}))
	assert.Equal(t, StepAwaitingFoodAmount, store.Get(1).Step)
	assert.Equal(t, StepIdle, store.Get(2).Step)

	store.Clear(1)
	assert.Equal(t, StepIdle, store.Get(1).Step)
}

func TestStoreExpireBefore(t *testing.T) {
	store := NewStore()
	store.Set(1, AwaitFood(PendingFood{Name: "banana"}))
	store.Set(2, State{Step: StepAwaitingWeight})

	assert.Equal(t, 0, store.ExpireBefore(time.Now().Add(-time.Minute)))
	assert.Equal(t, StepAwaitingFoodAmount, store.Get(1).Step)

	assert.Equal(t, 2, store.ExpireBefore(time.Now().Add(time.Minute)))
	assert.Equal(t, StepIdle, store.Get(1).Step)
	assert.Equal(t, StepIdle, store.Get(2).Step)
}
