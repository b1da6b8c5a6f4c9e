// Package session owns the ephemeral per-actor conversational state:
// a single pending step plus flow-scoped scratch values. Lost on
// restart, which is accepted.
package session

import (
	"sync"

	"telegram-reminder-bot/internal/models"
)

type state struct {
	step models.Step
	data map[string]string // keys are "<flow>.<field>"
}

// Store is a mutex-protected map chat_id → state. The update loop is
// serial per actor, but the checker goroutine lives in the same
// process, so writes are guarded anyway.
type Store struct {
	mu sync.Mutex
	m  map[int64]*state
}

func NewStore() *Store {
	return &Store{m: make(map[int64]*state)}
}

// Step returns the actor's pending step, StepNone if nothing pending.
func (s *Store) Step(chatID int64) models.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.m[chatID]; ok {
		return st.step
	}
	return models.StepNone
}

// SetStep overwrites the pending step (single slot, never stacked).
// Scratch data survives so a flow can advance through several steps.
func (s *Store) SetStep(chatID int64, step models.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[chatID]
	if !ok {
		st = &state{data: make(map[string]string)}
		s.m[chatID] = st
	}
	st.step = step
}

// Put stores a scratch value under flow.key.
func (s *Store) Put(chatID int64, flow, key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[chatID]
	if !ok {
		st = &state{data: make(map[string]string)}
		s.m[chatID] = st
	}
	st.data[flow+"."+key] = val
}

// Get reads a scratch value for flow.key; missing values read as "".
func (s *Store) Get(chatID int64, flow, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.m[chatID]; ok {
		return st.data[flow+"."+key]
	}
	return ""
}

// Reset is the terminal transition: no pending step, no scratch data.
// A flow abandoned mid-way is wiped by the next Begin instead, so
// stale values cannot leak across flows either way.
func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}

// Begin starts a flow: wipes all scratch (including another flow's
// orphaned leftovers) and sets the first step.
func (s *Store) Begin(chatID int64, step models.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = &state{step: step, data: make(map[string]string)}
}
