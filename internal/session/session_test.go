package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-reminder-bot/internal/models"
)

func TestStepSingleSlot(t *testing.T) {
	s := NewStore()
	assert.Equal(t, models.StepNone, s.Step(1))

	s.SetStep(1, models.StepPickYear)
	s.SetStep(1, models.StepPickMonth)
	assert.Equal(t, models.StepPickMonth, s.Step(1), "steps overwrite, never stack")
}

func TestFlowIsolationBetweenActors(t *testing.T) {
	s := NewStore()
	s.Begin(1, models.StepPickDay)
	s.Put(1, "calendar", "date", "2026-09-01")
	s.Begin(2, models.StepAwaitBanReason)
	s.Put(2, "ban", "target", "42")

	assert.Equal(t, "2026-09-01", s.Get(1, "calendar", "date"))
	assert.Equal(t, "", s.Get(1, "ban", "target"))
	assert.Equal(t, "42", s.Get(2, "ban", "target"))
	assert.Equal(t, "", s.Get(2, "calendar", "date"))
}

func TestBeginWipesOrphanedScratch(t *testing.T) {
	s := NewStore()
	// actor abandons a calendar flow mid-way
	s.Begin(1, models.StepAwaitReminderText)
	s.Put(1, "calendar", "date", "2026-09-01")

	// then starts an unrelated flow
	s.Begin(1, models.StepAwaitTimerDuration)
	assert.Equal(t, "", s.Get(1, "calendar", "date"), "stale scratch must not leak")
	assert.Equal(t, models.StepAwaitTimerDuration, s.Step(1))
}

func TestResetIsTerminal(t *testing.T) {
	s := NewStore()
	s.Begin(1, models.StepAwaitBroadcastConfirm)
	s.Put(1, "bcast", "text", "hello")

	s.Reset(1)
	assert.Equal(t, models.StepNone, s.Step(1))
	assert.Equal(t, "", s.Get(1, "bcast", "text"))
}
