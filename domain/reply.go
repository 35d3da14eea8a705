package domain

import "strings"

// Signal tells the transport what happened to the session.
type Signal string

const (
	SignalContinue  Signal = "continue"
	SignalCompleted Signal = "completed"
	SignalCancelled Signal = "cancelled"
	SignalFailed    Signal = "failed"
	// SignalIdle is used for replies given while no session is running.
	SignalIdle Signal = "idle"
)

// Reply is what the transport shows to the user.
// Choices are suggestions only.
type Reply struct {
	Text    string
	Choices []string
	Signal  Signal
}

type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerStart
	TriggerBegin
	TriggerCancel
	TriggerUnknownCommand
)

// ParseTrigger recognises the chat commands. A command may carry a bot
// suffix ("/predict@churn_bot") as chat platforms append it in groups.
func ParseTrigger(text string) Trigger {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return TriggerNone
	}
	command := strings.Fields(text)[0]
	command, _, _ = strings.Cut(command, "@")
	switch strings.ToLower(command) {
	case "/start":
		return TriggerStart
	case "/predict":
		return TriggerBegin
	case "/cancel":
		return TriggerCancel
	default:
		return TriggerUnknownCommand
	}
}
