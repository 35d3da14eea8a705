package domain

import (
	"churn-bot/errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Session is one user's walk through the schema.
// It is mutated by a single worker only: answers holds exactly the fields
// before step, and step moves forward on a valid answer only.
type Session struct {
	ID        string
	StartedAt time.Time
	schema    Schema
	step      int
	answers   Answers
	status    Status
}

func NewSession(id string, schema Schema, now time.Time) *Session {
	return &Session{
		ID:        id,
		StartedAt: now,
		schema:    schema,
		answers:   make(Answers, schema.Len()),
		status:    StatusInProgress,
	}
}

func (s *Session) Step() int {
	return s.step
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) Answers() Answers {
	return s.answers.Clone()
}

// Current returns the field waiting for an answer.
func (s *Session) Current() (Field, bool) {
	if s.status != StatusInProgress {
		return Field{}, false
	}
	return s.schema.At(s.step), true
}

// Submit validates raw against the current field. On success the answer is
// stored and the session moves to the next field, or to completed after the
// last one. On a validation error nothing changes.
func (s *Session) Submit(raw string) (Field, error) {
	field, ok := s.Current()
	if !ok {
		return Field{}, fmt.Errorf("session %s is %s: %w", s.ID, s.status, errors.ErrSessionClosed)
	}
	value, err := s.schema.Validate(field, raw)
	if err != nil {
		return field, err
	}
	s.answers[field.Name] = value
	s.step++
	if s.step == s.schema.Len() {
		s.status = StatusCompleted
	}
	return field, nil
}

// Cancel ends the session and discards every answer.
func (s *Session) Cancel() {
	s.status = StatusCancelled
	s.answers = nil
}
