package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsLocked(t *testing.T) {
	var g Gate
	assert.Equal(t, Locked, g.State())
	assert.False(t, g.CanEdit())
}

func TestAttemptEdit_NoPasswordUnlocks(t *testing.T) {
	var g Gate
	assert.Equal(t, Unlocked, g.AttemptEdit(""))
	assert.True(t, g.CanEdit())
}

func TestPasswordFlow(t *testing.T) {
	var g Gate
	require.Equal(t, PromptOpen, g.AttemptEdit("abc"))

	state, err := g.Submit("xyz", "abc")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, PromptOpen, state)

	state, err = g.Submit("abc", "abc")
	require.NoError(t, err)
	assert.Equal(t, Unlocked, state)

	assert.Equal(t, Locked, g.Lock())
	assert.False(t, g.CanEdit())
}

func TestSubmitWithoutPrompt(t *testing.T) {
	var g Gate
	_, err := g.Submit("abc", "abc")
	assert.ErrorIs(t, err, ErrNoPrompt)
	assert.Equal(t, Locked, g.State())
}

func TestDismiss(t *testing.T) {
	var g Gate
	g.AttemptEdit("abc")
	assert.Equal(t, Locked, g.Dismiss())

	g.AttemptEdit("")
	assert.Equal(t, Unlocked, g.Dismiss())
}

func TestAttemptWhileUnlockedIsNoop(t *testing.T) {
	var g Gate
	g.AttemptEdit("")
	assert.Equal(t, Unlocked, g.AttemptEdit("abc"))
}
