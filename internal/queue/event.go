// Package queue defines the activity events exchanged over the message
// broker and the consumer that writes them to the activity log.
package queue

import (
	"fmt"
	"strings"
)

// ActivityQueue is the durable queue activity events are published to.
const ActivityQueue = "mentor.activity"

// Activity event types.
const (
	EventUserRegistered    = "user.registered"
	EventProfileUpdated    = "profile.updated"
	EventProjectsSuggested = "projects.suggested"
	EventRoadmapCreated    = "roadmap.created"
	EventChatMessage       = "chat.message"
	EventProgressLogged    = "progress.logged"
)

// ActivityEvent is published after a successful write to one of the
// learner tables. It carries enough for the consumer to log the event
// without reading the tables.
type ActivityEvent struct {
	Type       string `json:"type"`
	UserEmail  string `json:"user_email"`
	RecordID   int    `json:"record_id,omitempty"`
	Summary    string `json:"summary,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// Line renders ev as one activity.log line.
func (ev ActivityEvent) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | user=%q", ev.OccurredAt, ev.Type, ev.UserEmail)
	if ev.RecordID > 0 {
		fmt.Fprintf(&b, " | id=%d", ev.RecordID)
	}
	if ev.Summary != "" {
		fmt.Fprintf(&b, " | %q", ev.Summary)
	}
	b.WriteByte('\n')
	return b.String()
}
