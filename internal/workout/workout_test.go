package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	run, err := Parse("бег")
	require.NoError(t, err)
	assert.Equal(t, 8.3, run.MET)

	// case-insensitive and alias forms resolve to the same entry
	byUpper, err := Parse("БЕГ")
	require.NoError(t, err)
	assert.Equal(t, run, byUpper)

	byAlias, err := Parse("Running")
	require.NoError(t, err)
	assert.Equal(t, run, byAlias)

	_, err = Parse("кроссфит")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTokensCoversCatalog(t *testing.T) {
	tokens := Tokens()
	assert.Len(t, tokens, 13)
	assert.Contains(t, tokens, "скакалка")

	for _, token := range tokens {
		k, err := Parse(token)
		require.NoError(t, err)
		assert.Greater(t, k.MET, 0.0)
		assert.NotEmpty(t, k.Emoji)
	}
}

// Reference scenario: 30 minutes of running at 70kg burns 8.3*70*0.5 = 290.5
// kcal and adds 200ml to the water goal.
func TestRunningScenario(t *testing.T) {
	run, err := Parse("бег")
	require.NoError(t, err)

	assert.InDelta(t, 290.5, run.CaloriesBurned(70, 30), 1e-9)
	assert.Equal(t, 200, WaterBonusML(30))
}

func TestWaterBonusFloors(t *testing.T) {
	cases := []struct {
		minutes int
		bonus   int
	}{
		{30, 200},
		{45, 300},
		{60, 400},
		{20, 133},
		{1, 6},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.bonus, WaterBonusML(tc.minutes), "minutes=%d", tc.minutes)
	}
}
